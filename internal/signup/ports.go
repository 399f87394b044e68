package signup

import (
	"context"
	"fmt"

	"github.com/pick-your-pour/signup-service/internal/api/dto"
	"github.com/pick-your-pour/signup-service/internal/domain"
)

// UniquenessChecker is the advisory availability pre-check. A returned error
// means the check could not be completed; callers must treat that as
// "not confirmed unique" and block, never as available.
type UniquenessChecker interface {
	CheckUnique(ctx context.Context, field domain.UniqueField, value string) (bool, error)
}

// AccountCreator commits the draft. The storage-layer unique constraint
// behind it is the authoritative duplicate guard; implementations surface
// constraint violations as *ConflictError.
type AccountCreator interface {
	CreateAccount(ctx context.Context, username, email string, profileImageURL, phone *string) (*dto.UserResponse, error)
}

// AssetUploader stores a profile image and returns its public URL. ownerKey
// identifies the draft session so unclaimed uploads can be reaped.
type AssetUploader interface {
	UploadImage(ctx context.Context, ownerKey string, data []byte, mimeType string) (string, error)
}

// EventTracker records UI interactions. Fire-and-forget: failures must never
// block the workflow.
type EventTracker interface {
	Track(ctx context.Context, eventType, page, element string) error
}

// ConflictError reports that a username or email is already in use, either
// from the pre-check or from the authoritative rejection at commit.
type ConflictError struct {
	Field domain.UniqueField
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already in use", e.Field)
}

// ValidationError reports locally rejected input; no network call was made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
