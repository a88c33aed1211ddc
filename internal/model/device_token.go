package model

import "time"

// AdminDeviceToken associates an administrator with their current push-capable
// browser endpoint. The owner ID is the primary key, so an administrator holds
// at most one active token; re-registering from the same or another browser
// session replaces the previous row (last writer wins).
type AdminDeviceToken struct {
	OwnerID   string    `gorm:"primaryKey;size:64" json:"owner_id"`
	Token     string    `gorm:"size:512;not null" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
