package dto

import (
	"github.com/ignitron2k25/ignitron-api/internal/models"
)

// CollegeCreateRequest is the admin payload to register a college.
type CollegeCreateRequest struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
	Code string `json:"code" validate:"required,min=2,max=32"`
}

// CollegeResponse is the serialized representation of a college.
type CollegeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	TotalPoints int    `json:"total_points"`
}

// NewCollegeResponse converts a model into a DTO.
func NewCollegeResponse(college models.College) CollegeResponse {
	return CollegeResponse{
		ID:          college.ID,
		Name:        college.Name,
		Code:        college.Code,
		TotalPoints: college.TotalPoints,
	}
}

// NewCollegeResponseSlice converts a slice of models into DTOs.
func NewCollegeResponseSlice(colleges []models.College) []CollegeResponse {
	out := make([]CollegeResponse, 0, len(colleges))
	for _, college := range colleges {
		out = append(out, NewCollegeResponse(college))
	}
	return out
}
