package models

import "time"

// College represents a participating college and its running point total.
// TotalPoints is maintained exclusively through atomic increments driven by
// result creation and deletion; it can go negative after corrective deletes.
type College struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Code        string    `gorm:"size:32;uniqueIndex;not null" json:"code"`
	TotalPoints int       `gorm:"not null;default:0" json:"total_points"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
