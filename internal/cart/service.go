package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"minimart/internal/models"
	"minimart/internal/store"
)

var ErrProductUnavailable = errors.New("product unavailable")

// OrderPlacer turns a cart into a persisted order.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, c models.Cart, info models.CustomerInfo) (models.Order, error)
}

// View is what a session sees of its cart.
type View struct {
	SessionID    string            `json:"sessionId"`
	Lines        []models.CartLine `json:"lines"`
	Totals       Totals            `json:"totals"`
	Notification string            `json:"notification,omitempty"`
}

type Service struct {
	carts       Store
	products    store.Products
	deliveryFee float64
	now         func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(carts Store, products store.Products, deliveryFee float64) *Service {
	return &Service{
		carts:       carts,
		products:    products,
		deliveryFee: deliveryFee,
		now:         time.Now,
		locks:       make(map[string]*sessionLock),
	}
}

func (s *Service) Get(ctx context.Context, sessionID string) (View, error) {
	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return s.view(c), nil
}

// Add looks up the live product and adds it to the session cart.
func (s *Service) Add(ctx context.Context, sessionID, productID string, quantity int) (View, error) {
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return View{}, err
	}
	if !p.IsActive {
		return View{}, fmt.Errorf("%w: %s", ErrProductUnavailable, productID)
	}

	return s.mutate(ctx, sessionID, func(c *models.Cart) {
		Add(c, p, quantity, s.now())
	})
}

func (s *Service) Remove(ctx context.Context, sessionID, productID string) (View, error) {
	return s.mutate(ctx, sessionID, func(c *models.Cart) {
		Remove(c, productID)
	})
}

// UpdateQuantity refreshes the line's product snapshot first so the cap uses
// the live stock. A product that no longer exists keeps its old snapshot.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (View, error) {
	var live *models.Product
	if quantity > 0 {
		p, err := s.products.GetProduct(ctx, productID)
		switch {
		case err == nil:
			live = &p
		case !errors.Is(err, store.ErrNotFound):
			return View{}, err
		}
	}

	return s.mutate(ctx, sessionID, func(c *models.Cart) {
		if live != nil {
			if i := indexOf(c, productID); i >= 0 {
				c.Lines[i].Product = *live
			}
		}
		UpdateQuantity(c, productID, quantity)
	})
}

func (s *Service) Clear(ctx context.Context, sessionID string) (View, error) {
	return s.mutate(ctx, sessionID, Clear)
}

func (s *Service) DismissNotification(ctx context.Context, sessionID string) (View, error) {
	return s.mutate(ctx, sessionID, Dismiss)
}

// Checkout places an order from the session cart. The cart is cleared only
// after the order has been stored; on any failure it is left as it was.
func (s *Service) Checkout(ctx context.Context, sessionID string, placer OrderPlacer, info models.CustomerInfo) (models.Order, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return models.Order{}, err
	}

	order, err := placer.PlaceOrder(ctx, c, info)
	if err != nil {
		return models.Order{}, err
	}

	Clear(&c)
	c.UpdatedAt = s.now()
	if err := s.carts.Save(ctx, c); err != nil {
		log.Printf("[CART] [ERROR] order %s placed but cart %s not cleared: %v", order.ID, sessionID, err)
	}
	return order, nil
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func(c *models.Cart)) (View, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	fn(&c)
	c.UpdatedAt = s.now()
	if err := s.carts.Save(ctx, c); err != nil {
		return View{}, err
	}
	return s.view(c), nil
}

func (s *Service) view(c models.Cart) View {
	lines := c.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	return View{
		SessionID:    c.SessionID,
		Lines:        lines,
		Totals:       ComputeTotals(c, s.deliveryFee),
		Notification: ActiveNotification(c, s.now()),
	}
}

// lock serialises mutations of one session within this process.
func (s *Service) lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}
