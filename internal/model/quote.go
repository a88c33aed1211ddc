package model

import "time"

// QuoteSubmission is one quote request submitted through the public site.
// Uploaded asset references live in external object storage and are not part
// of this table.
type QuoteSubmission struct {
	ID                 string     `gorm:"primaryKey;size:36" json:"id"`
	UserName           string     `gorm:"size:256;not null" json:"user_name"`
	UserEmail          string     `gorm:"size:256;not null" json:"user_email"`
	UserPhone          string     `gorm:"size:64" json:"user_phone"`
	ServiceType        string     `gorm:"size:128;not null" json:"service_type"`
	ProjectDescription string     `json:"project_description"`
	PreferredDeadline  *time.Time `json:"preferred_deadline"`
	CreatedAt          time.Time  `gorm:"not null" json:"created_at"`
}
