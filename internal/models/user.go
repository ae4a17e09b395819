package models

import (
	"time"

	"gorm.io/datatypes"
)

// User roles recognised by the scoring API.
const (
	RoleAdmin       = "admin"
	RoleCoordinator = "coordinator"
)

// User represents an admin or event coordinator account.
type User struct {
	ID           string                     `gorm:"primaryKey;size:36" json:"id"`
	Username     string                     `gorm:"size:255;not null" json:"username"`
	Email        string                     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string                     `gorm:"size:255;not null" json:"-"`
	Role         string                     `gorm:"size:32;not null" json:"role"`
	EventIDs     datatypes.JSONSlice[string] `gorm:"type:json" json:"event_ids"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
