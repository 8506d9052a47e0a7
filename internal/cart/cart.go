// Package cart implements the session shopping cart: stock-capped lines,
// totals with a flat delivery fee and the short-lived "added" notice.
package cart

import (
	"time"

	"minimart/internal/models"
	"minimart/internal/pricing"
)

const (
	DefaultDeliveryFee = 100.0
	NotificationTTL    = 2 * time.Second
	AddedMessage       = "Product added to cart"
)

// Add puts quantity units of p into the cart, never beyond p.Stock. A product
// with no stock leaves the cart untouched. Quantities below one count as one.
// It reports whether the cart changed.
func Add(c *models.Cart, p models.Product, quantity int, now time.Time) bool {
	if p.Stock <= 0 {
		return false
	}
	if quantity < 1 {
		quantity = 1
	}

	if i := indexOf(c, p.ID); i >= 0 {
		c.Lines[i].Product = p
		c.Lines[i].Quantity = min(c.Lines[i].Quantity+quantity, p.Stock)
	} else {
		c.Lines = append(c.Lines, models.CartLine{Product: p, Quantity: min(quantity, p.Stock)})
	}

	c.Notification = AddedMessage
	c.NotificationExpiry = now.Add(NotificationTTL)
	c.UpdatedAt = now
	return true
}

// Remove drops the line for productID; removing an absent product is a no-op.
func Remove(c *models.Cart, productID string) {
	i := indexOf(c, productID)
	if i < 0 {
		return
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

// UpdateQuantity sets a line's quantity, capped at the snapshot stock. Zero or
// less removes the line.
func UpdateQuantity(c *models.Cart, productID string, quantity int) {
	if quantity <= 0 {
		Remove(c, productID)
		return
	}
	if i := indexOf(c, productID); i >= 0 {
		c.Lines[i].Quantity = min(quantity, c.Lines[i].Product.Stock)
	}
}

func Clear(c *models.Cart) {
	c.Lines = nil
}

// Dismiss hides the notification before it expires.
func Dismiss(c *models.Cart) {
	c.Notification = ""
	c.NotificationExpiry = time.Time{}
}

// ActiveNotification returns the notice if it has not expired yet.
func ActiveNotification(c models.Cart, now time.Time) string {
	if c.Notification == "" || !now.Before(c.NotificationExpiry) {
		return ""
	}
	return c.Notification
}

type Totals struct {
	TotalItems  int     `json:"totalItems"`
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
}

// ComputeTotals derives the cart totals. The delivery fee only applies to a
// non-empty cart.
func ComputeTotals(c models.Cart, deliveryFee float64) Totals {
	var t Totals
	for _, line := range c.Lines {
		t.TotalItems += line.Quantity
		t.Subtotal += pricing.ProductPrice(line.Product) * float64(line.Quantity)
	}
	if len(c.Lines) > 0 {
		t.DeliveryFee = deliveryFee
	}
	t.Total = t.Subtotal + t.DeliveryFee
	return t
}

func indexOf(c *models.Cart, productID string) int {
	for i, line := range c.Lines {
		if line.Product.ID == productID {
			return i
		}
	}
	return -1
}
