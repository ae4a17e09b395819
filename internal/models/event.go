package models

import (
	"time"

	"gorm.io/datatypes"
)

// Event represents a festival event that coordinators record results for.
type Event struct {
	ID             string                     `gorm:"primaryKey;size:36" json:"id"`
	Title          string                     `gorm:"size:255;not null" json:"title"`
	Code           string                     `gorm:"size:32;not null" json:"code"`
	CoordinatorIDs datatypes.JSONSlice[string] `gorm:"type:json" json:"coordinator_ids"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
}

// HasCoordinator reports whether the given user id is in the event's coordinator set.
func (e Event) HasCoordinator(userID string) bool {
	for _, id := range e.CoordinatorIDs {
		if id == userID {
			return true
		}
	}
	return false
}
