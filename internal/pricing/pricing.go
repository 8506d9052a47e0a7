// Package pricing computes what a product costs at the till and guards the
// price fields admins can write.
package pricing

import (
	"errors"
	"fmt"

	"minimart/internal/models"
)

var ErrInvalidProduct = errors.New("invalid product")

// EffectivePrice applies a percentage discount to a list price. No rounding is
// done here; currency formatting rounds at display time.
func EffectivePrice(listPrice, discountPercent float64) float64 {
	if discountPercent > 0 {
		return listPrice * (1 - discountPercent/100)
	}
	return listPrice
}

// ProductPrice is EffectivePrice for a product snapshot.
func ProductPrice(p models.Product) float64 {
	return EffectivePrice(p.Price, p.Discount)
}

// IsDiscounted reports whether the discount actually lowers the price.
func IsDiscounted(p models.Product) bool {
	return p.Discount > 0 && p.Price > 0
}

// Decorate fills the derived, non-persisted product fields.
func Decorate(p models.Product) models.Product {
	p.EffectivePrice = ProductPrice(p)
	p.InStock = p.Stock > 0
	p.OnSale = IsDiscounted(p)
	return p
}

// ValidateFields enforces the bounds stored products must respect: a
// non-negative price, a discount within [0,100] and non-negative stock.
func ValidateFields(price, discount float64, stock int) error {
	if price < 0 {
		return fmt.Errorf("%w: price must be zero or greater", ErrInvalidProduct)
	}
	if discount < 0 || discount > 100 {
		return fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalidProduct)
	}
	if stock < 0 {
		return fmt.Errorf("%w: stock must be zero or greater", ErrInvalidProduct)
	}
	return nil
}

// ProductUpdate carries the optional fields of a partial product update.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Discount    *float64
	Category    *string
	ImageURL    *string
	Stock       *int
	IsActive    *bool
}

// Empty reports whether the update touches no field.
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.Discount == nil &&
		u.Category == nil && u.ImageURL == nil && u.Stock == nil && u.IsActive == nil
}

// ApplyUpdate merges an update into an existing product and validates the
// result as a whole, so a new discount is checked against the stored price.
func ApplyUpdate(existing models.Product, input ProductUpdate) (models.Product, error) {
	result := existing

	if input.Name != nil {
		result.Name = *input.Name
	}
	if input.Description != nil {
		result.Description = *input.Description
	}
	if input.Price != nil {
		result.Price = *input.Price
	}
	if input.Discount != nil {
		result.Discount = *input.Discount
	}
	if input.Category != nil {
		result.Category = *input.Category
	}
	if input.ImageURL != nil {
		result.ImageURL = *input.ImageURL
	}
	if input.Stock != nil {
		result.Stock = *input.Stock
	}
	if input.IsActive != nil {
		result.IsActive = *input.IsActive
	}

	if result.Name == "" {
		return models.Product{}, fmt.Errorf("%w: name required", ErrInvalidProduct)
	}
	if err := ValidateFields(result.Price, result.Discount, result.Stock); err != nil {
		return models.Product{}, err
	}
	return result, nil
}
