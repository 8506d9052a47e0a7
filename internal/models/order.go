package models

import "time"

type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusAccepted       OrderStatus = "Accepted"
	StatusPreparing      OrderStatus = "Preparing"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

// OrderStatuses lists every status in happy-path order, Cancelled last.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusAccepted,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// StockAdjustment records what has been done to inventory for an order.
// It only moves none -> deducted -> restored.
type StockAdjustment string

const (
	StockNone     StockAdjustment = "none"
	StockDeducted StockAdjustment = "deducted"
	StockRestored StockAdjustment = "restored"
)

// OrderItem represents a single product entry within an order.
// Price is the unit price as charged, already discounted.
type OrderItem struct {
	ProductID string  `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
}

// Order defines the persisted order document.
type Order struct {
	ID            string          `bson:"_id" json:"id"`
	CustomerName  string          `bson:"customerName" json:"customerName"`
	Phone         string          `bson:"phone" json:"phone"`
	Address       string          `bson:"address" json:"address"`
	Notes         string          `bson:"notes,omitempty" json:"notes"`
	Items         []OrderItem     `bson:"items" json:"items"`
	Subtotal      float64         `bson:"subtotal" json:"subtotal"`
	DeliveryFee   float64         `bson:"deliveryFee" json:"deliveryFee"`
	Total         float64         `bson:"total" json:"total"`
	PaymentMethod string          `bson:"paymentMethod" json:"paymentMethod"`
	Status        OrderStatus     `bson:"status" json:"status"`
	StockAdjusted StockAdjustment `bson:"stockAdjusted" json:"stockAdjusted"`
	CreatedAt     time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// CustomerInfo captures the delivery details submitted at checkout.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}
