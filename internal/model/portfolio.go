package model

import "time"

// Portfolio represents one showcased past project.
type Portfolio struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Category    string    `gorm:"size:128;not null" json:"category"`
	Client      string    `gorm:"size:256" json:"client"`
	Year        string    `gorm:"size:8" json:"year"`
	ImageURL    string    `gorm:"size:512" json:"image_url"`
	Featured    bool      `gorm:"not null;default:false" json:"featured"`
	Status      string    `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
