package domain

import "time"

// VisitorEvent is an append-only record of a UI interaction, captured for
// analytics. It has no relation to User.
type VisitorEvent struct {
	ID        int64
	EventType string
	Page      string
	Element   string
	IPAddress *string
	CreatedAt time.Time
}
