package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSignupCompleted      EventType = "signup_completed"
	EventProfileImageUploaded EventType = "profile_image_uploaded"
	EventVisitorRecorded      EventType = "visitor_event_recorded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SignupCompletedPayload payload.
type SignupCompletedPayload struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	HasPhone bool   `json:"has_phone"`
	IconKind string `json:"icon_kind"`
}

// ProfileImageUploadedPayload payload.
type ProfileImageUploadedPayload struct {
	OwnerKey  string `json:"owner_key"`
	ImageURL  string `json:"image_url"`
	SizeBytes int    `json:"size_bytes"`
	MimeType  string `json:"mime_type"`
}

// VisitorRecordedPayload payload.
type VisitorRecordedPayload struct {
	EventID   int64  `json:"event_id"`
	EventType string `json:"event_type"`
	Page      string `json:"page"`
	Element   string `json:"element,omitempty"`
}
