package dto

import (
	"time"

	"github.com/pick-your-pour/signup-service/internal/domain"
)

// UniquenessCheckRequest payload for the availability pre-check.
type UniquenessCheckRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UniquenessCheckResponse reports the advisory verdict.
type UniquenessCheckResponse struct {
	IsUnique bool `json:"isUnique"`
}

// CreateUserRequest payload for final sign-up commit.
type CreateUserRequest struct {
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	Phone           *string `json:"phone,omitempty"`
}

// UserResponse is the wire form of a user record.
type UserResponse struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewUserResponse converts the domain model.
func NewUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
		Phone:           u.Phone,
		CreatedAt:       u.CreatedAt,
	}
}

// TrackEventRequest payload for visitor interaction tracking.
type TrackEventRequest struct {
	EventType string `json:"eventType"`
	Page      string `json:"page"`
	Element   string `json:"element"`
}

// VisitorEventResponse is the wire form of a recorded event.
type VisitorEventResponse struct {
	ID        int64     `json:"id"`
	EventType string    `json:"eventType"`
	Page      string    `json:"page"`
	Element   string    `json:"element,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewVisitorEventResponse converts the domain model.
func NewVisitorEventResponse(e *domain.VisitorEvent) *VisitorEventResponse {
	if e == nil {
		return nil
	}
	return &VisitorEventResponse{
		ID:        e.ID,
		EventType: e.EventType,
		Page:      e.Page,
		Element:   e.Element,
		CreatedAt: e.CreatedAt,
	}
}
