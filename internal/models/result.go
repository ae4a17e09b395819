package models

import "time"

// Result is one immutable ledger entry awarding points to a college for an
// event. There is no update path: corrections happen by deleting the entry,
// which reverses its stored points value against the college total.
type Result struct {
	ID                   string    `gorm:"primaryKey;size:36" json:"id"`
	EventID              string    `gorm:"size:36;index;not null" json:"event_id"`
	CollegeID            string    `gorm:"size:36;index;not null" json:"college_id"`
	Points               int       `gorm:"not null" json:"points"`
	AchievementStatement string    `gorm:"type:text;not null" json:"achievement_statement"`
	RecordedBy           string    `gorm:"size:36;not null" json:"recorded_by"`
	CreatedAt            time.Time `json:"created_at"`
}
