package dto

import (
	"github.com/ignitron2k25/ignitron-api/internal/models"
)

// EventCreateRequest is the admin payload to create a festival event.
type EventCreateRequest struct {
	Title          string   `json:"title" validate:"required,min=2,max=255"`
	Code           string   `json:"code" validate:"required,min=2,max=32"`
	CoordinatorIDs []string `json:"coordinator_ids" validate:"omitempty,dive,uuid4"`
}

// EventResponse is the serialized representation of an event.
type EventResponse struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Code           string   `json:"code"`
	CoordinatorIDs []string `json:"coordinator_ids"`
}

// NewEventResponse converts a model into a DTO.
func NewEventResponse(event models.Event) EventResponse {
	coordinators := make([]string, 0, len(event.CoordinatorIDs))
	coordinators = append(coordinators, event.CoordinatorIDs...)

	return EventResponse{
		ID:             event.ID,
		Title:          event.Title,
		Code:           event.Code,
		CoordinatorIDs: coordinators,
	}
}

// NewEventResponseSlice converts a slice of models into DTOs.
func NewEventResponseSlice(events []models.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, NewEventResponse(event))
	}
	return out
}
