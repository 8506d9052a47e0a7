package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minimart/internal/models"
)

func TestMemoryAdjustStockClampsAtZero(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateProduct(ctx, models.Product{ID: "p1", Name: "Milk", Stock: 3}))

	stock, err := m.AdjustStock(ctx, "p1", -5)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)

	stock, err = m.AdjustStock(ctx, "p1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, stock)

	_, err = m.AdjustStock(ctx, "missing", 1)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryAdjustStockConcurrentDeductionsDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateProduct(ctx, models.Product{ID: "p1", Name: "Bread", Stock: 100}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.AdjustStock(ctx, "p1", -1)
		}()
	}
	wg.Wait()

	p, err := m.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 50, p.Stock)
}

func TestMemoryFindOrderIsCaseInsensitiveOnIDAndExactOnPhone(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateOrder(ctx, models.Order{ID: "ORD-001", Phone: "555-0101"}))

	o, err := m.FindOrder(ctx, "ord-001", "555-0101")
	require.NoError(t, err)
	assert.Equal(t, "ORD-001", o.ID)

	_, err = m.FindOrder(ctx, "ORD-001", "000-0000")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryUpdateOrderStatusIgnoresTerminalOrders(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	created := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, m.CreateOrder(ctx, models.Order{ID: "ORD-1", Status: models.StatusDelivered, UpdatedAt: created}))

	o, changed, err := m.UpdateOrderStatus(ctx, "ORD-1", models.StatusPending, created.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.StatusDelivered, o.Status)
	assert.True(t, o.UpdatedAt.Equal(created))
}

func TestMemorySwapStockMarkerIsCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateOrder(ctx, models.Order{ID: "ORD-1", StockAdjusted: models.StockNone}))

	ok, err := m.SwapStockMarker(ctx, "ORD-1", models.StockNone, models.StockDeducted, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.SwapStockMarker(ctx, "ORD-1", models.StockNone, models.StockDeducted, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCreateOrderRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateOrder(ctx, models.Order{ID: "ORD-1"}))
	err := m.CreateOrder(ctx, models.Order{ID: "ORD-1"})
	assert.True(t, errors.Is(err, ErrConflict))

	var storeErr *Error
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, CollectionOrders, storeErr.Collection)
}

func TestMemoryOrdersAreCopiedOnRead(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateOrder(ctx, models.Order{ID: "ORD-1", Items: []models.OrderItem{{ProductID: "p1", Quantity: 2}}}))

	o, err := m.GetOrder(ctx, "ORD-1")
	require.NoError(t, err)
	o.Items[0].Quantity = 99

	again, err := m.GetOrder(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items[0].Quantity)
}

func TestMemoryListProductsFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, m.CreateProduct(ctx, models.Product{ID: "a", Name: "Green Apple", Category: "fruit", IsActive: true, CreatedAt: base}))
	require.NoError(t, m.CreateProduct(ctx, models.Product{ID: "b", Name: "Banana", Category: "fruit", IsActive: true, CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, m.CreateProduct(ctx, models.Product{ID: "c", Name: "Apple Juice", Category: "drinks", IsActive: false, CreatedAt: base.Add(2 * time.Minute)}))

	active, total, err := m.ListProducts(ctx, ProductFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "b", active[0].ID)

	found, _, err := m.ListProducts(ctx, ProductFilter{Search: "apple"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	page, total, err := m.ListProducts(ctx, ProductFilter{Skip: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].ID)
}

func TestMemoryCategoryNamesAreUnique(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateCategory(ctx, models.Category{ID: "c1", Name: "Dairy"}))
	err := m.CreateCategory(ctx, models.Category{ID: "c2", Name: "Dairy"})
	assert.True(t, errors.Is(err, ErrConflict))
}
