package models

import "time"

// CartLine holds a full product snapshot and the selected quantity.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is the pre-checkout selection of one session. Lines are unique by product id.
type Cart struct {
	SessionID          string     `json:"sessionId"`
	Lines              []CartLine `json:"lines"`
	Notification       string     `json:"notification,omitempty"`
	NotificationExpiry time.Time  `json:"notificationExpiry,omitempty"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}
