package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"minimart/internal/models"
)

// Memory is the process-local backend. It is used when no document store is
// configured and by tests.
type Memory struct {
	mu          sync.RWMutex
	products    map[string]models.Product
	categories  map[string]models.Category
	banners     map[string]models.Banner
	hero        *models.Hero
	orders      map[string]models.Order
	credentials *models.AdminCredentials
}

var _ Backend = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		products:   make(map[string]models.Product),
		categories: make(map[string]models.Category),
		banners:    make(map[string]models.Banner),
		orders:     make(map[string]models.Order),
	}
}

/* =======================
   PRODUCTS
======================= */

func (m *Memory) ListProducts(_ context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	return paginate(matched, filter.Skip, filter.Limit), total, nil
}

func (m *Memory) GetProduct(_ context.Context, id string) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return models.Product{}, Wrap(ErrNotFound, "get", CollectionProducts)
	}
	return p, nil
}

func (m *Memory) CreateProduct(_ context.Context, p models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.products[p.ID]; exists {
		return Wrap(ErrConflict, "create", CollectionProducts)
	}
	m.products[p.ID] = p
	return nil
}

func (m *Memory) ReplaceProduct(_ context.Context, p models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.products[p.ID]; !exists {
		return Wrap(ErrNotFound, "replace", CollectionProducts)
	}
	m.products[p.ID] = p
	return nil
}

func (m *Memory) DeleteProduct(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.products[id]; !exists {
		return Wrap(ErrNotFound, "delete", CollectionProducts)
	}
	delete(m.products, id)
	return nil
}

func (m *Memory) AdjustStock(_ context.Context, id string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return 0, Wrap(ErrNotFound, "adjust stock", CollectionProducts)
	}
	p.Stock += delta
	if p.Stock < 0 {
		p.Stock = 0
	}
	m.products[id] = p
	return p.Stock, nil
}

/* =======================
   CATEGORIES
======================= */

func (m *Memory) ListCategories(_ context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) GetCategory(_ context.Context, id string) (models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[id]
	if !ok {
		return models.Category{}, Wrap(ErrNotFound, "get", CollectionCategories)
	}
	return c, nil
}

func (m *Memory) CreateCategory(_ context.Context, c models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.categories[c.ID]; exists {
		return Wrap(ErrConflict, "create", CollectionCategories)
	}
	for _, existing := range m.categories {
		if existing.Name == c.Name {
			return Wrap(ErrConflict, "create", CollectionCategories)
		}
	}
	m.categories[c.ID] = c
	return nil
}

func (m *Memory) ReplaceCategory(_ context.Context, c models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.categories[c.ID]; !exists {
		return Wrap(ErrNotFound, "replace", CollectionCategories)
	}
	for id, existing := range m.categories {
		if id != c.ID && existing.Name == c.Name {
			return Wrap(ErrConflict, "replace", CollectionCategories)
		}
	}
	m.categories[c.ID] = c
	return nil
}

func (m *Memory) DeleteCategory(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.categories[id]; !exists {
		return Wrap(ErrNotFound, "delete", CollectionCategories)
	}
	delete(m.categories, id)
	return nil
}

/* =======================
   BANNERS & HERO
======================= */

func (m *Memory) ListBanners(_ context.Context, activeOnly bool) ([]models.Banner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Banner, 0, len(m.banners))
	for _, b := range m.banners {
		if activeOnly && !b.IsActive {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) GetBanner(_ context.Context, id string) (models.Banner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.banners[id]
	if !ok {
		return models.Banner{}, Wrap(ErrNotFound, "get", CollectionBanners)
	}
	return b, nil
}

func (m *Memory) CreateBanner(_ context.Context, b models.Banner) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.banners[b.ID]; exists {
		return Wrap(ErrConflict, "create", CollectionBanners)
	}
	m.banners[b.ID] = b
	return nil
}

func (m *Memory) ReplaceBanner(_ context.Context, b models.Banner) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.banners[b.ID]; !exists {
		return Wrap(ErrNotFound, "replace", CollectionBanners)
	}
	m.banners[b.ID] = b
	return nil
}

func (m *Memory) DeleteBanner(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.banners[id]; !exists {
		return Wrap(ErrNotFound, "delete", CollectionBanners)
	}
	delete(m.banners, id)
	return nil
}

func (m *Memory) GetHero(_ context.Context) (models.Hero, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.hero == nil {
		return models.Hero{}, Wrap(ErrNotFound, "get", CollectionHero)
	}
	return *m.hero, nil
}

func (m *Memory) SetHero(_ context.Context, h models.Hero) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hero = &h
	return nil
}

/* =======================
   ORDERS
======================= */

func (m *Memory) CreateOrder(_ context.Context, o models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.orders[o.ID]; exists {
		return Wrap(ErrConflict, "create", CollectionOrders)
	}
	m.orders[o.ID] = cloneOrder(o)
	return nil
}

func (m *Memory) GetOrder(_ context.Context, id string) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, Wrap(ErrNotFound, "get", CollectionOrders)
	}
	return cloneOrder(o), nil
}

func (m *Memory) FindOrder(_ context.Context, id, phone string) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, o := range m.orders {
		if strings.EqualFold(o.ID, id) && o.Phone == phone {
			return cloneOrder(o), nil
		}
	}
	return models.Order{}, Wrap(ErrNotFound, "find", CollectionOrders)
}

func (m *Memory) ListOrders(_ context.Context, filter OrderFilter) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) UpdateOrderStatus(_ context.Context, id string, status models.OrderStatus, at time.Time) (models.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, false, Wrap(ErrNotFound, "update status", CollectionOrders)
	}
	if o.Status.Terminal() {
		return cloneOrder(o), false, nil
	}
	o.Status = status
	o.UpdatedAt = at
	m.orders[id] = o
	return cloneOrder(o), true, nil
}

func (m *Memory) SwapStockMarker(_ context.Context, id string, from, to models.StockAdjustment, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return false, Wrap(ErrNotFound, "swap stock marker", CollectionOrders)
	}
	if o.StockAdjusted != from {
		return false, nil
	}
	o.StockAdjusted = to
	o.UpdatedAt = at
	m.orders[id] = o
	return true, nil
}

func (m *Memory) DeleteOrder(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.orders[id]; !exists {
		return Wrap(ErrNotFound, "delete", CollectionOrders)
	}
	delete(m.orders, id)
	return nil
}

/* =======================
   CREDENTIALS
======================= */

func (m *Memory) GetCredentials(_ context.Context) (models.AdminCredentials, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.credentials == nil {
		return models.AdminCredentials{}, Wrap(ErrNotFound, "get", CollectionCredentials)
	}
	return *m.credentials, nil
}

func (m *Memory) PutCredentials(_ context.Context, c models.AdminCredentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.credentials = &c
	return nil
}

func cloneOrder(o models.Order) models.Order {
	if o.Items != nil {
		items := make([]models.OrderItem, len(o.Items))
		copy(items, o.Items)
		o.Items = items
	}
	return o
}

func paginate[T any](items []T, skip, limit int64) []T {
	if skip > 0 {
		if skip >= int64(len(items)) {
			return items[:0]
		}
		items = items[skip:]
	}
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	return items
}
