package models

import "time"

type Banner struct {
	ID        string    `bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	ImageURL  string    `bson:"imageUrl" json:"imageUrl"`
	Link      string    `bson:"link,omitempty" json:"link,omitempty"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Hero is the single storefront hero image document.
type Hero struct {
	ImageURL  string    `bson:"imageUrl" json:"imageUrl"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
