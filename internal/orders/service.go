// Package orders turns carts into orders and drives them through their
// lifecycle, keeping product stock in step with the order status.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"minimart/internal/events"
	"minimart/internal/models"
	"minimart/internal/store"
)

const maxIDAttempts = 5

var ErrOrderIDExhausted = errors.New("could not allocate a unique order id")

type Service struct {
	orders      store.Orders
	products    store.Products
	publisher   events.Publisher
	deliveryFee float64
	now         func() time.Time
}

func NewService(orders store.Orders, products store.Products, publisher events.Publisher, deliveryFee float64) *Service {
	return &Service{
		orders:      orders,
		products:    products,
		publisher:   publisher,
		deliveryFee: deliveryFee,
		now:         time.Now,
	}
}

// PlaceOrder validates the customer, snapshots the cart and stores the order.
func (s *Service) PlaceOrder(ctx context.Context, c models.Cart, info models.CustomerInfo) (models.Order, error) {
	if len(c.Lines) == 0 {
		return models.Order{}, ErrEmptyCart
	}
	info, err := ValidateCustomer(info)
	if err != nil {
		return models.Order{}, err
	}

	now := s.now().UTC()
	order, err := BuildOrder(c, info, s.deliveryFee, now)
	if err != nil {
		return models.Order{}, err
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		order.ID = NewOrderID(now, attempt)
		err := s.orders.CreateOrder(ctx, order)
		if err == nil {
			log.Printf("[ORDER] [INFO] order %s created: items=%d total=%.2f", order.ID, len(order.Items), order.Total)
			events.Notify(ctx, s.publisher, store.CollectionOrders, events.ActionCreated, order.ID)
			return order, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			log.Printf("[ORDER] [ERROR] create order failed: %v", err)
			return models.Order{}, err
		}
		log.Printf("[ORDER] [WARN] order id %s taken, retrying", order.ID)
	}
	return models.Order{}, ErrOrderIDExhausted
}

// Track finds an order for the customer tracking page. A miss is reported
// through the bool, never as an error.
func (s *Service) Track(ctx context.Context, orderID, phone string) (models.Order, bool, error) {
	orderID = strings.TrimSpace(orderID)
	phone = strings.TrimSpace(phone)
	if orderID == "" || phone == "" {
		return models.Order{}, false, nil
	}

	o, err := s.orders.FindOrder(ctx, orderID, phone)
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, false, nil
	}
	if err != nil {
		return models.Order{}, false, err
	}
	return o, true, nil
}

func (s *Service) Get(ctx context.Context, orderID string) (models.Order, error) {
	return s.orders.GetOrder(ctx, orderID)
}

func (s *Service) List(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	return s.orders.ListOrders(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, orderID string) error {
	if err := s.orders.DeleteOrder(ctx, orderID); err != nil {
		return err
	}
	events.Notify(ctx, s.publisher, store.CollectionOrders, events.ActionDeleted, orderID)
	return nil
}

// Transition is the outcome of an admin status change.
type Transition struct {
	Order          models.Order `json:"order"`
	Applied        bool         `json:"applied"`
	StockChanged   bool         `json:"stockChanged"`
	FailedProducts []string     `json:"failedProducts,omitempty"`
}

// ApplyStatus moves an order to next and reconciles stock. Orders already
// Delivered or Cancelled are returned unchanged without error.
func (s *Service) ApplyStatus(ctx context.Context, orderID string, next models.OrderStatus) (Transition, error) {
	if !next.Valid() {
		return Transition{}, fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}

	current, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return Transition{}, err
	}

	now := s.now().UTC()
	preview := current
	if !SetStatus(&preview, next, now) {
		log.Printf("[ORDER] [INFO] order %s is %s, ignoring status %s", orderID, current.Status, next)
		return Transition{Order: current}, nil
	}

	updated, changed, err := s.orders.UpdateOrderStatus(ctx, orderID, next, now)
	if err != nil {
		log.Printf("[ORDER] [ERROR] status update for %s failed: %v", orderID, err)
		return Transition{}, err
	}
	if !changed {
		log.Printf("[ORDER] [INFO] order %s became %s concurrently, ignoring status %s", orderID, updated.Status, next)
		return Transition{Order: updated}, nil
	}
	events.Notify(ctx, s.publisher, store.CollectionOrders, events.ActionUpdated, orderID)

	result := Transition{Order: updated, Applied: true}
	if err := s.reconcile(ctx, &result, next, now); err != nil {
		return result, err
	}
	return result, nil
}

// reconcile claims the stock marker first, so that two admins racing on the
// same order cannot both deduct, and then applies each product delta on its
// own. A failed product write is logged and reported, not rolled back.
func (s *Service) reconcile(ctx context.Context, t *Transition, next models.OrderStatus, now time.Time) error {
	plan, ok := PlanReconciliation(t.Order, next)
	if !ok {
		return nil
	}

	swapped, err := s.orders.SwapStockMarker(ctx, t.Order.ID, plan.From, plan.To, now)
	if err != nil {
		log.Printf("[STOCK] [ERROR] marker %s->%s for %s failed: %v", plan.From, plan.To, t.Order.ID, err)
		return err
	}
	if !swapped {
		log.Printf("[STOCK] [INFO] order %s stock already moved past %s", t.Order.ID, plan.From)
		return nil
	}
	t.Order.StockAdjusted = plan.To
	t.StockChanged = true

	for _, d := range plan.Deltas {
		stock, err := s.products.AdjustStock(ctx, d.ProductID, d.Delta)
		if err != nil {
			log.Printf("[STOCK] [ERROR] adjust %s by %d for order %s failed: %v", d.ProductID, d.Delta, t.Order.ID, err)
			t.FailedProducts = append(t.FailedProducts, d.ProductID)
			continue
		}
		log.Printf("[STOCK] [INFO] product %s stock now %d (order %s)", d.ProductID, stock, t.Order.ID)
		events.Notify(ctx, s.publisher, store.CollectionProducts, events.ActionUpdated, d.ProductID)
	}
	return nil
}

// Summary builds the admin dashboard from every stored order and product.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	list, err := s.orders.ListOrders(ctx, store.OrderFilter{})
	if err != nil {
		return Summary{}, err
	}
	products, _, err := s.products.ListProducts(ctx, store.ProductFilter{})
	if err != nil {
		return Summary{}, err
	}
	return Summarize(list, products, s.now()), nil
}
