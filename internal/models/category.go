package models

import "time"

type Category struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Icon      string    `bson:"icon,omitempty" json:"icon"`
	ImageURL  string    `bson:"imageUrl,omitempty" json:"imageUrl"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
