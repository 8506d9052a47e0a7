package models

import "time"

type Product struct {
	ID             string    `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Description    string    `bson:"description,omitempty" json:"description"`
	Price          float64   `bson:"price" json:"price"`
	Discount       float64   `bson:"discount" json:"discount"`
	Category       string    `bson:"category" json:"category"`
	ImageURL       string    `bson:"imageUrl,omitempty" json:"imageUrl"`
	Stock          int       `bson:"stock" json:"stock"`
	IsActive       bool      `bson:"isActive" json:"isActive"`
	EffectivePrice float64   `bson:"-" json:"effectivePrice"`
	InStock        bool      `bson:"-" json:"inStock"`
	OnSale         bool      `bson:"-" json:"onSale"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
