package orders

import (
	"sort"
	"time"

	"minimart/internal/models"
)

const LowStockThreshold = 5

// Groups splits orders the way the admin order board shows them.
type Groups struct {
	Active    []models.Order `json:"active"`
	Completed []models.Order `json:"completed"`
	Cancelled []models.Order `json:"cancelled"`
}

func Group(list []models.Order) Groups {
	g := Groups{
		Active:    []models.Order{},
		Completed: []models.Order{},
		Cancelled: []models.Order{},
	}
	for _, o := range list {
		switch o.Status {
		case models.StatusDelivered:
			g.Completed = append(g.Completed, o)
		case models.StatusCancelled:
			g.Cancelled = append(g.Cancelled, o)
		default:
			g.Active = append(g.Active, o)
		}
	}
	return g
}

type LowStockProduct struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// Summary is the admin dashboard. Revenue only counts delivered orders,
// bucketed by when the order was placed.
type Summary struct {
	ActiveOrders   int                        `json:"activeOrders"`
	DeliveredToday int                        `json:"deliveredToday"`
	RevenueToday   float64                    `json:"revenueToday"`
	RevenueWeek    float64                    `json:"revenueWeek"`
	RevenueMonth   float64                    `json:"revenueMonth"`
	RevenueTotal   float64                    `json:"revenueTotal"`
	StatusCounts   map[models.OrderStatus]int `json:"statusCounts"`
	TotalProducts  int                        `json:"totalProducts"`
	LowStock       []LowStockProduct          `json:"lowStock"`
	GeneratedAt    time.Time                  `json:"generatedAt"`
}

// Summarize computes the dashboard in now's location. Weeks start on Monday.
func Summarize(list []models.Order, products []models.Product, now time.Time) Summary {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	s := Summary{
		StatusCounts:  make(map[models.OrderStatus]int, len(models.OrderStatuses)),
		TotalProducts: len(products),
		LowStock:      []LowStockProduct{},
		GeneratedAt:   now,
	}
	for _, status := range models.OrderStatuses {
		s.StatusCounts[status] = 0
	}

	for _, o := range list {
		s.StatusCounts[o.Status]++
		if !o.Status.Terminal() {
			s.ActiveOrders++
		}
		if o.Status != models.StatusDelivered {
			continue
		}
		placed := o.CreatedAt.In(now.Location())
		s.RevenueTotal += o.Total
		if !placed.Before(monthStart) {
			s.RevenueMonth += o.Total
		}
		if !placed.Before(weekStart) {
			s.RevenueWeek += o.Total
		}
		if !placed.Before(dayStart) {
			s.RevenueToday += o.Total
			s.DeliveredToday++
		}
	}

	for _, p := range products {
		if p.Stock <= LowStockThreshold {
			s.LowStock = append(s.LowStock, LowStockProduct{ID: p.ID, Name: p.Name, Stock: p.Stock})
		}
	}
	sort.Slice(s.LowStock, func(i, j int) bool {
		if s.LowStock[i].Stock == s.LowStock[j].Stock {
			return s.LowStock[i].Name < s.LowStock[j].Name
		}
		return s.LowStock[i].Stock < s.LowStock[j].Stock
	})
	return s
}
