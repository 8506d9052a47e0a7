package orders

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"minimart/internal/cart"
	"minimart/internal/models"
	"minimart/internal/pricing"
)

const (
	PhoneDigits          = 11
	DefaultPaymentMethod = "Cash on Delivery"
)

var ErrEmptyCart = errors.New("cart is empty")

// ValidationError reports bad checkout input. Nothing is persisted when it
// is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DigitsOnly strips every non-digit character.
func DigitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCustomer trims the checkout form and checks it. The phone must have
// exactly PhoneDigits digits once separators are stripped.
func ValidateCustomer(info models.CustomerInfo) (models.CustomerInfo, error) {
	info.Name = strings.TrimSpace(info.Name)
	info.Address = strings.TrimSpace(info.Address)
	info.Notes = strings.TrimSpace(info.Notes)
	info.Phone = DigitsOnly(info.Phone)

	if info.Name == "" {
		return models.CustomerInfo{}, ValidationError{Field: "name", Message: "name is required"}
	}
	if info.Address == "" {
		return models.CustomerInfo{}, ValidationError{Field: "address", Message: "address is required"}
	}
	if info.Phone == "" {
		return models.CustomerInfo{}, ValidationError{Field: "phone", Message: "phone is required"}
	}
	if len(info.Phone) != PhoneDigits {
		return models.CustomerInfo{}, ValidationError{
			Field:   "phone",
			Message: fmt.Sprintf("phone number must be %d digits", PhoneDigits),
		}
	}
	return info, nil
}

// BuildOrder freezes the cart into an order. Item prices are the discounted
// unit prices at this moment and never follow later product changes. The id
// is left for the caller to assign.
func BuildOrder(c models.Cart, info models.CustomerInfo, deliveryFee float64, now time.Time) (models.Order, error) {
	if len(c.Lines) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(c.Lines))
	subtotal := 0.0
	for _, line := range c.Lines {
		unitPrice := pricing.ProductPrice(line.Product)
		items = append(items, models.OrderItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			Price:     unitPrice,
		})
		subtotal += unitPrice * float64(line.Quantity)
	}

	fee := cart.ComputeTotals(c, deliveryFee).DeliveryFee

	return models.Order{
		CustomerName:  info.Name,
		Phone:         info.Phone,
		Address:       info.Address,
		Notes:         info.Notes,
		Items:         items,
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		Total:         subtotal + fee,
		PaymentMethod: DefaultPaymentMethod,
		Status:        models.StatusPending,
		StockAdjusted: models.StockNone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// NewOrderID derives a short human-readable id from the clock: "ORD-" and the
// last six digits of the Unix millisecond time. attempt shifts the value so a
// retry after a collision yields a different id.
func NewOrderID(now time.Time, attempt int) string {
	n := (now.UnixMilli() + int64(attempt)) % 1_000_000
	return fmt.Sprintf("ORD-%06d", n)
}
