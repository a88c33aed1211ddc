package model

import "time"

// Service represents one offered service shown on the marketing site.
type Service struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Title          string    `gorm:"size:256;not null" json:"title"`
	Description    string    `gorm:"not null" json:"description"`
	Category       string    `gorm:"size:128;not null" json:"category"`
	BasePrice      string    `gorm:"size:64" json:"base_price"`
	Benefits       string    `json:"benefits"` // newline-separated list
	IconName       string    `gorm:"size:64" json:"icon_name"`
	ImageURL       string    `gorm:"size:512" json:"image_url"`
	SpecialistName string    `gorm:"size:256" json:"specialist_name"`
	Status         string    `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
