package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minimart/internal/events"
	"minimart/internal/models"
	"minimart/internal/store"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) actions(collection string) []events.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Action
	for _, e := range r.events {
		if e.Collection == collection {
			out = append(out, e.Action)
		}
	}
	return out
}

func newTestService(t *testing.T) (*Service, *store.Memory, *recordingPublisher) {
	t.Helper()
	mem := store.NewMemory()
	pub := &recordingPublisher{}
	svc := NewService(mem, mem, pub, 100)
	svc.now = func() time.Time { return testNow }
	return svc, mem, pub
}

func seedProducts(t *testing.T, mem *store.Memory, stocks map[string]int) {
	t.Helper()
	for id, stock := range stocks {
		require.NoError(t, mem.CreateProduct(context.Background(), models.Product{
			ID: id, Name: id, Price: 10, Stock: stock, IsActive: true, CreatedAt: testNow,
		}))
	}
}

func seedOrder(t *testing.T, mem *store.Memory, id string, items ...models.OrderItem) {
	t.Helper()
	require.NoError(t, mem.CreateOrder(context.Background(), models.Order{
		ID:            id,
		CustomerName:  "Jane",
		Phone:         "03001234567",
		Items:         items,
		Status:        models.StatusPending,
		StockAdjusted: models.StockNone,
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}))
}

func stockOf(t *testing.T, mem *store.Memory, id string) int {
	t.Helper()
	p, err := mem.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestPlaceOrderStoresPendingOrder(t *testing.T) {
	svc, mem, pub := newTestService(t)
	ctx := context.Background()

	order, err := svc.PlaceOrder(ctx, testCart(), validCustomer())
	require.NoError(t, err)

	assert.Regexp(t, `^ORD-\d{6}$`, order.ID)
	assert.Equal(t, 130.0, order.Total)
	assert.Equal(t, "03001234567", order.Phone)

	stored, err := mem.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Items, stored.Items)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, []events.Action{events.ActionCreated}, pub.actions(store.CollectionOrders))
}

func TestPlaceOrderRejectsBadInputWithoutPersisting(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ctx := context.Background()

	info := validCustomer()
	info.Phone = "0300123456"
	_, err := svc.PlaceOrder(ctx, testCart(), info)
	var verr ValidationError
	require.True(t, errors.As(err, &verr))

	_, err = svc.PlaceOrder(ctx, models.Cart{}, validCustomer())
	require.True(t, errors.Is(err, ErrEmptyCart))

	list, err := mem.ListOrders(ctx, store.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPlaceOrderRetriesTakenID(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ctx := context.Background()

	seedOrder(t, mem, NewOrderID(testNow.UTC(), 0))

	order, err := svc.PlaceOrder(ctx, testCart(), validCustomer())
	require.NoError(t, err)
	assert.Equal(t, NewOrderID(testNow.UTC(), 1), order.ID)
}

func TestPlaceOrderDoesNotTouchStock(t *testing.T) {
	svc, mem, _ := newTestService(t)
	seedProducts(t, mem, map[string]int{"A": 10, "B": 10})

	_, err := svc.PlaceOrder(context.Background(), testCart(), validCustomer())
	require.NoError(t, err)
	assert.Equal(t, 10, stockOf(t, mem, "A"))
	assert.Equal(t, 10, stockOf(t, mem, "B"))
}

func TestApplyStatusDeductsOnceAcrossAcceptAndDeliver(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ctx := context.Background()
	seedProducts(t, mem, map[string]int{"A": 10, "B": 5})
	seedOrder(t, mem, "ORD-000001",
		models.OrderItem{ProductID: "A", Quantity: 3},
		models.OrderItem{ProductID: "B", Quantity: 2},
	)

	tr, err := svc.ApplyStatus(ctx, "ORD-000001", models.StatusAccepted)
	require.NoError(t, err)
	assert.True(t, tr.Applied)
	assert.True(t, tr.StockChanged)
	assert.Equal(t, models.StockDeducted, tr.Order.StockAdjusted)
	assert.Equal(t, 7, stockOf(t, mem, "A"))
	assert.Equal(t, 3, stockOf(t, mem, "B"))

	tr, err = svc.ApplyStatus(ctx, "ORD-000001", models.StatusDelivered)
	require.NoError(t, err)
	assert.True(t, tr.Applied)
	assert.False(t, tr.StockChanged)
	assert.Equal(t, 7, stockOf(t, mem, "A"))
	assert.Equal(t, 3, stockOf(t, mem, "B"))
}

func TestApplyStatusCancelRestoresDeductedStock(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ctx := context.Background()
	seedProducts(t, mem, map[string]int{"A": 10})
	seedOrder(t, mem, "ORD-000002",
		models.OrderItem{ProductID: "A", Quantity: 2},
		models.OrderItem{ProductID: "A", Quantity: 1},
	)

	_, err := svc.ApplyStatus(ctx, "ORD-000002", models.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, 7, stockOf(t, mem, "A"))

	tr, err := svc.ApplyStatus(ctx, "ORD-000002", models.StatusCancelled)
	require.NoError(t, err)
	assert.True(t, tr.StockChanged)
	assert.Equal(t, models.StockRestored, tr.Order.StockAdjusted)
	assert.Equal(t, 10, stockOf(t, mem, "A"))
}

func TestApplyStatusCancelWithoutDeductionLeavesStock(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ctx := context.Background()
	seedProducts(t, mem, map[string]int{"A": 10})
	seedOrder(t, mem, "ORD-000003", models.OrderItem{ProductID: "A", Quantity: 4})

	tr, err := svc.ApplyStatus(ctx, "ORD-000003", models.StatusCancelled)
	require.NoError(t, err)
	assert.True(t, tr.Applied)
	assert.False(t, tr.StockChanged)
	assert.Equal(t, 10, stockOf(t, mem, "A"))
}

func TestApplyStatusTerminalOrderIsSilentNoop(t *testing.T) {
	svc, mem, pub := newTestService(t)
	ctx := context.Background()
	seedProducts(t, mem, map[string]int{"A": 10})
	seedOrder(t, mem, "ORD-000004", models.OrderItem{ProductID: "A", Quantity: 1})

	_, err := svc.ApplyStatus(ctx, "ORD-000004", models.StatusCancelled)
	require.NoError(t, err)
	before, err := mem.GetOrder(ctx, "ORD-000004")
	require.NoError(t, err)
	published := len(pub.actions(store.CollectionOrders))

	svc.now = func() time.Time { return testNow.Add(time.Hour) }
	tr, err := svc.ApplyStatus(ctx, "ORD-000004", models.StatusAccepted)
	require.NoError(t, err)
	assert.False(t, tr.Applied)
	assert.Equal(t, models.StatusCancelled, tr.Order.Status)

	after, err := mem.GetOrder(ctx, "ORD-000004")
	require.NoError(t, err)
	assert.Equal(t, before.Status, after.Status)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
	assert.Equal(t, 10, stockOf(t, mem, "A"))
	assert.Len(t, pub.actions(store.CollectionOrders), published)
}

func TestApplyStatusClampsAndReportsMissingProducts(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ctx := context.Background()
	seedProducts(t, mem, map[string]int{"A": 1})
	seedOrder(t, mem, "ORD-000005",
		models.OrderItem{ProductID: "A", Quantity: 3},
		models.OrderItem{ProductID: "gone", Quantity: 1},
	)

	tr, err := svc.ApplyStatus(ctx, "ORD-000005", models.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, 0, stockOf(t, mem, "A"))
	assert.Equal(t, []string{"gone"}, tr.FailedProducts)
	assert.Equal(t, models.StockDeducted, tr.Order.StockAdjusted)
}

func TestApplyStatusConcurrentAcceptDeductsOnce(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ctx := context.Background()
	seedProducts(t, mem, map[string]int{"A": 100})
	seedOrder(t, mem, "ORD-000006", models.OrderItem{ProductID: "A", Quantity: 5})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			next := models.StatusAccepted
			if i%2 == 0 {
				next = models.StatusOutForDelivery
			}
			_, err := svc.ApplyStatus(ctx, "ORD-000006", next)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	_, err := svc.ApplyStatus(ctx, "ORD-000006", models.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, 95, stockOf(t, mem, "A"))
}

func TestApplyStatusErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ApplyStatus(ctx, "ORD-404404", models.StatusAccepted)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	_, err = svc.ApplyStatus(ctx, "ORD-404404", models.OrderStatus("Shipped"))
	assert.True(t, errors.Is(err, ErrInvalidStatus))
}

func TestTrack(t *testing.T) {
	svc, mem, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, mem.CreateOrder(ctx, models.Order{
		ID: "ORD-001", Phone: "555-0101", Status: models.StatusPending, CreatedAt: testNow,
	}))

	o, found, err := svc.Track(ctx, " ord-001 ", "555-0101")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ORD-001", o.ID)

	_, found, err = svc.Track(ctx, "ORD-001", "555-0102")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = svc.Track(ctx, "ORD-999", "555-0101")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = svc.Track(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteNotifies(t *testing.T) {
	svc, mem, pub := newTestService(t)
	ctx := context.Background()
	seedOrder(t, mem, "ORD-000007")

	require.NoError(t, svc.Delete(ctx, "ORD-000007"))
	_, err := svc.Get(ctx, "ORD-000007")
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.Equal(t, []events.Action{events.ActionDeleted}, pub.actions(store.CollectionOrders))
}
