package models

import "time"

// AdminCredentials is the single admin login document. PasswordHash is a bcrypt hash.
type AdminCredentials struct {
	Username     string    `bson:"username" json:"username"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
