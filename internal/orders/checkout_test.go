package orders

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minimart/internal/cart"
	"minimart/internal/models"
)

var testNow = time.Date(2026, 5, 6, 15, 30, 0, 0, time.UTC)

func testCart() models.Cart {
	c := models.Cart{SessionID: "s1"}
	cart.Add(&c, models.Product{ID: "A", Name: "Apples", Price: 10, Stock: 10, IsActive: true}, 2, testNow)
	cart.Add(&c, models.Product{ID: "B", Name: "Bread", Price: 20, Discount: 50, Stock: 10, IsActive: true}, 1, testNow)
	return c
}

func validCustomer() models.CustomerInfo {
	return models.CustomerInfo{Name: " Jane ", Phone: "0300-123-4567", Address: " 1 Main St ", Notes: " ring twice "}
}

func TestValidateCustomerPhoneLength(t *testing.T) {
	for _, phone := range []string{"0300123456", "030012345678", "", "abc"} {
		info := validCustomer()
		info.Phone = phone
		_, err := ValidateCustomer(info)

		var verr ValidationError
		require.True(t, errors.As(err, &verr), "phone %q", phone)
		assert.Equal(t, "phone", verr.Field)
	}
}

func TestValidateCustomerRequiresNameAndAddress(t *testing.T) {
	info := validCustomer()
	info.Name = "   "
	_, err := ValidateCustomer(info)
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Field)

	info = validCustomer()
	info.Address = ""
	_, err = ValidateCustomer(info)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "address", verr.Field)
}

func TestValidateCustomerNormalizes(t *testing.T) {
	info, err := ValidateCustomer(validCustomer())
	require.NoError(t, err)
	assert.Equal(t, "Jane", info.Name)
	assert.Equal(t, "03001234567", info.Phone)
	assert.Equal(t, "1 Main St", info.Address)
	assert.Equal(t, "ring twice", info.Notes)
}

func TestBuildOrderFreezesDiscountedPrices(t *testing.T) {
	info, err := ValidateCustomer(validCustomer())
	require.NoError(t, err)

	order, err := BuildOrder(testCart(), info, 100, testNow)
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.Equal(t, models.OrderItem{ProductID: "A", Name: "Apples", Quantity: 2, Price: 10}, order.Items[0])
	assert.Equal(t, models.OrderItem{ProductID: "B", Name: "Bread", Quantity: 1, Price: 10}, order.Items[1])
	assert.Equal(t, 30.0, order.Subtotal)
	assert.Equal(t, 100.0, order.DeliveryFee)
	assert.Equal(t, order.Subtotal+order.DeliveryFee, order.Total)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.StockNone, order.StockAdjusted)
	assert.True(t, order.CreatedAt.Equal(testNow))
	assert.True(t, order.UpdatedAt.Equal(testNow))
}

func TestBuildOrderRejectsEmptyCart(t *testing.T) {
	_, err := BuildOrder(models.Cart{}, models.CustomerInfo{}, 100, testNow)
	assert.True(t, errors.Is(err, ErrEmptyCart))
}

func TestNewOrderID(t *testing.T) {
	now := time.UnixMilli(1_700_000_123_456)
	assert.Equal(t, "ORD-123456", NewOrderID(now, 0))
	assert.Equal(t, "ORD-123457", NewOrderID(now, 1))
	assert.Equal(t, "ORD-000042", NewOrderID(time.UnixMilli(5_000_042), 0))
}
