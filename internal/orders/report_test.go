package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minimart/internal/models"
)

func TestGroup(t *testing.T) {
	g := Group([]models.Order{
		{ID: "1", Status: models.StatusPending},
		{ID: "2", Status: models.StatusDelivered},
		{ID: "3", Status: models.StatusOutForDelivery},
		{ID: "4", Status: models.StatusCancelled},
	})

	require.Len(t, g.Active, 2)
	assert.Equal(t, "1", g.Active[0].ID)
	assert.Equal(t, "3", g.Active[1].ID)
	require.Len(t, g.Completed, 1)
	require.Len(t, g.Cancelled, 1)

	empty := Group(nil)
	assert.NotNil(t, empty.Active)
	assert.Empty(t, empty.Cancelled)
}

func TestSummarize(t *testing.T) {
	// Wednesday afternoon; the week started on Monday the 4th.
	now := time.Date(2026, 5, 6, 15, 0, 0, 0, time.UTC)
	list := []models.Order{
		{Status: models.StatusDelivered, Total: 100, CreatedAt: now.Add(-time.Hour)},
		{Status: models.StatusDelivered, Total: 50, CreatedAt: now.AddDate(0, 0, -2)},
		{Status: models.StatusDelivered, Total: 25, CreatedAt: now.AddDate(0, 0, -4)},
		{Status: models.StatusDelivered, Total: 10, CreatedAt: now.AddDate(0, -1, 0)},
		{Status: models.StatusCancelled, Total: 999, CreatedAt: now},
		{Status: models.StatusPending, Total: 40, CreatedAt: now},
		{Status: models.StatusPreparing, Total: 40, CreatedAt: now},
	}
	products := []models.Product{
		{ID: "a", Name: "Milk", Stock: 5},
		{ID: "b", Name: "Eggs", Stock: 0},
		{ID: "c", Name: "Bread", Stock: 20},
		{ID: "d", Name: "Apples", Stock: 5},
	}

	s := Summarize(list, products, now)

	assert.Equal(t, 2, s.ActiveOrders)
	assert.Equal(t, 1, s.DeliveredToday)
	assert.Equal(t, 100.0, s.RevenueToday)
	assert.Equal(t, 150.0, s.RevenueWeek)
	assert.Equal(t, 175.0, s.RevenueMonth)
	assert.Equal(t, 185.0, s.RevenueTotal)
	assert.Equal(t, 4, s.StatusCounts[models.StatusDelivered])
	assert.Equal(t, 0, s.StatusCounts[models.StatusAccepted])
	assert.Equal(t, 4, s.TotalProducts)
	assert.Equal(t, []LowStockProduct{
		{ID: "b", Name: "Eggs", Stock: 0},
		{ID: "d", Name: "Apples", Stock: 5},
		{ID: "a", Name: "Milk", Stock: 5},
	}, s.LowStock)
}

func TestServiceSummary(t *testing.T) {
	svc, mem, _ := newTestService(t)
	seedProducts(t, mem, map[string]int{"A": 2, "B": 50})
	seedOrder(t, mem, "ORD-000010")

	s, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, s.ActiveOrders)
	assert.Equal(t, 2, s.TotalProducts)
	require.Len(t, s.LowStock, 1)
	assert.Equal(t, "A", s.LowStock[0].ID)
}
