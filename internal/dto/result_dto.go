package dto

import (
	"time"

	"github.com/ignitron2k25/ignitron-api/internal/models"
)

// ResultCreateRequest is the payload to record a scoring result.
// Points must be non-negative at creation time; negative net effect only
// arises from deleting an earlier entry.
type ResultCreateRequest struct {
	EventID              string `json:"event_id" validate:"required,uuid4"`
	CollegeID            string `json:"college_id" validate:"required,uuid4"`
	Points               int    `json:"points" validate:"gte=0"`
	AchievementStatement string `json:"achievement_statement" validate:"required,min=1,max=2000"`
}

// ResultResponse is the serialized representation of a ledger entry.
type ResultResponse struct {
	ID                   string    `json:"id"`
	EventID              string    `json:"event_id"`
	CollegeID            string    `json:"college_id"`
	Points               int       `json:"points"`
	AchievementStatement string    `json:"achievement_statement"`
	RecordedBy           string    `json:"recorded_by"`
	Timestamp            time.Time `json:"timestamp"`
}

// NewResultResponse converts a model into a DTO.
func NewResultResponse(result models.Result) ResultResponse {
	return ResultResponse{
		ID:                   result.ID,
		EventID:              result.EventID,
		CollegeID:            result.CollegeID,
		Points:               result.Points,
		AchievementStatement: result.AchievementStatement,
		RecordedBy:           result.RecordedBy,
		Timestamp:            result.CreatedAt,
	}
}

// NewResultResponseSlice converts a slice of models into DTOs.
func NewResultResponseSlice(results []models.Result) []ResultResponse {
	out := make([]ResultResponse, 0, len(results))
	for _, result := range results {
		out = append(out, NewResultResponse(result))
	}
	return out
}
