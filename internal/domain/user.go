package domain

import "time"

// User is the domain model for a registered account. Username and email are
// stored lower-cased; uniqueness of each is enforced case-insensitively by
// the storage layer.
type User struct {
	ID              string
	Username        string
	Email           string
	ProfileImageURL *string
	Phone           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UniqueField names a user column subject to a uniqueness guarantee.
type UniqueField string

const (
	FieldUsername UniqueField = "username"
	FieldEmail    UniqueField = "email"
)

// Valid reports whether the field is one of the checkable columns.
func (f UniqueField) Valid() bool {
	return f == FieldUsername || f == FieldEmail
}
