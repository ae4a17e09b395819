package dto

import (
	"github.com/ignitron2k25/ignitron-api/internal/models"
)

// RegisterRequest is the admin-only payload to create a new account.
type RegisterRequest struct {
	Username string   `json:"username" validate:"required,min=2,max=255"`
	Email    string   `json:"email" validate:"required,email,max=255"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	Role     string   `json:"role" validate:"omitempty,oneof=admin coordinator"`
	EventIDs []string `json:"event_ids" validate:"omitempty,dive,uuid4"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the serialized representation of a user, credentials excluded.
type UserResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	EventIDs []string `json:"event_ids"`
}

// TokenResponse wraps an issued access token together with the authenticated user.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(user models.User) UserResponse {
	eventIDs := make([]string, 0, len(user.EventIDs))
	eventIDs = append(eventIDs, user.EventIDs...)

	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		EventIDs: eventIDs,
	}
}

// NewUserResponseSlice converts a slice of models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserResponse(user))
	}
	return out
}
