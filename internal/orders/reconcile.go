package orders

import (
	"sort"

	"minimart/internal/models"
)

// StockDelta is the net change to apply to one product's stock.
type StockDelta struct {
	ProductID string
	Delta     int
}

// StockPlan describes the inventory work tied to a status change.
type StockPlan struct {
	From   models.StockAdjustment
	To     models.StockAdjustment
	Deltas []StockDelta
}

// PlanReconciliation decides whether moving o to next touches inventory.
// Accepted or Delivered deduct once; Cancelled restores only what was
// deducted. The bool is false when nothing should happen.
func PlanReconciliation(o models.Order, next models.OrderStatus) (StockPlan, bool) {
	marker := o.StockAdjusted
	if marker == "" {
		marker = models.StockNone
	}

	switch {
	case (next == models.StatusAccepted || next == models.StatusDelivered) && marker == models.StockNone:
		return StockPlan{
			From:   marker,
			To:     models.StockDeducted,
			Deltas: AggregateDeltas(o.Items, -1),
		}, true
	case next == models.StatusCancelled && marker == models.StockDeducted:
		return StockPlan{
			From:   marker,
			To:     models.StockRestored,
			Deltas: AggregateDeltas(o.Items, 1),
		}, true
	default:
		return StockPlan{}, false
	}
}

// AggregateDeltas sums item quantities per product so each product is written
// once. sign is -1 to deduct and +1 to restore. The result is sorted by
// product id.
func AggregateDeltas(items []models.OrderItem, sign int) []StockDelta {
	totals := make(map[string]int, len(items))
	for _, item := range items {
		totals[item.ProductID] += item.Quantity
	}

	deltas := make([]StockDelta, 0, len(totals))
	for id, qty := range totals {
		if qty == 0 {
			continue
		}
		deltas = append(deltas, StockDelta{ProductID: id, Delta: sign * qty})
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].ProductID < deltas[j].ProductID })
	return deltas
}
