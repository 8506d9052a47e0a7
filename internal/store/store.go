// Package store defines the storage port the shop logic talks to. Backends
// (in-memory here, MongoDB in package database) are interchangeable.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"minimart/internal/models"
)

const (
	CollectionProducts    = "products"
	CollectionCategories  = "categories"
	CollectionBanners     = "banners"
	CollectionHero        = "hero"
	CollectionOrders      = "orders"
	CollectionCredentials = "admin_credentials"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Error wraps a backend failure with the operation and collection involved.
type Error struct {
	Op         string
	Collection string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns nil for a nil err.
func Wrap(err error, op, collection string) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Collection: collection, Err: err}
}

type ProductFilter struct {
	ActiveOnly bool
	Category   string
	Search     string
	Skip       int64
	Limit      int64
}

type Products interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) error
	ReplaceProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	// AdjustStock atomically adds delta to the stock of a product, clamping
	// the result at zero, and returns the new stock.
	AdjustStock(ctx context.Context, id string, delta int) (int, error)
}

type Categories interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (models.Category, error)
	// CreateCategory returns ErrConflict when the name is already taken.
	CreateCategory(ctx context.Context, c models.Category) error
	ReplaceCategory(ctx context.Context, c models.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

type Banners interface {
	ListBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error)
	GetBanner(ctx context.Context, id string) (models.Banner, error)
	CreateBanner(ctx context.Context, b models.Banner) error
	ReplaceBanner(ctx context.Context, b models.Banner) error
	DeleteBanner(ctx context.Context, id string) error
}

type Hero interface {
	GetHero(ctx context.Context) (models.Hero, error)
	SetHero(ctx context.Context, h models.Hero) error
}

type OrderFilter struct {
	Status models.OrderStatus
}

type Orders interface {
	// CreateOrder returns ErrConflict when the order id already exists.
	CreateOrder(ctx context.Context, o models.Order) error
	GetOrder(ctx context.Context, id string) (models.Order, error)
	// FindOrder matches the id case-insensitively and the phone exactly.
	FindOrder(ctx context.Context, id, phone string) (models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// UpdateOrderStatus sets the status unless the stored order is already
	// terminal. The returned bool reports whether a write happened.
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, at time.Time) (models.Order, bool, error)
	// SwapStockMarker moves the stock marker from one value to another only if
	// it currently equals from.
	SwapStockMarker(ctx context.Context, id string, from, to models.StockAdjustment, at time.Time) (bool, error)
	DeleteOrder(ctx context.Context, id string) error
}

type Credentials interface {
	GetCredentials(ctx context.Context) (models.AdminCredentials, error)
	PutCredentials(ctx context.Context, c models.AdminCredentials) error
}

// Backend is the full storage port.
type Backend interface {
	Products
	Categories
	Banners
	Hero
	Orders
	Credentials
}
