package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pick-your-pour/signup-service/internal/domain"
	"github.com/pick-your-pour/signup-service/internal/events"
	"github.com/pick-your-pour/signup-service/internal/repository"
	apperrors "github.com/pick-your-pour/signup-service/pkg/util"
)

// phonePattern is the only accepted stored phone format.
var phonePattern = regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)

// takenCacheTTL bounds how long a "taken" verdict may be served from cache.
// Only taken results are cached: a cached "available" could mask a signup
// that landed in the meantime, while "taken" never becomes false in scope
// (accounts are not deleted).
const takenCacheTTL = 5 * time.Minute

// StagedImageClaimer moves a staged upload out of the janitor's reach once
// an account commits with its URL.
type StagedImageClaimer interface {
	ClaimStagedImage(ctx context.Context, url string) (string, error)
}

// RegistrationService implements the uniqueness pre-check and the
// authoritative account creation behind it.
type RegistrationService struct {
	users      repository.UserRepository
	cache      *redis.Client
	claimer    StagedImageClaimer
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewRegistrationService builds the service. cache may be nil, which
// disables the pre-check cache without changing semantics; claimer may be
// nil when no object store is configured.
func NewRegistrationService(users repository.UserRepository, cache *redis.Client, claimer StagedImageClaimer, dispatcher events.Dispatcher, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{users: users, cache: cache, claimer: claimer, dispatcher: dispatcher, logger: logger}
}

// CheckUniqueness reports whether value is still available for the given
// field, case-insensitively. The verdict is advisory: the unique index
// consulted at Register time is the authoritative guard.
func (s *RegistrationService) CheckUniqueness(ctx context.Context, field domain.UniqueField, value string) (bool, error) {
	if !field.Valid() {
		return false, apperrors.NewValidationError("field must be username or email", map[string]any{"field": string(field)})
	}
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return false, apperrors.NewValidationError("value is required", nil)
	}

	if s.cachedTaken(ctx, field, value) {
		return false, nil
	}

	exists, err := s.users.ExistsByField(ctx, field, value)
	if err != nil {
		return false, err
	}
	if exists {
		s.rememberTaken(ctx, field, value)
	}
	return !exists, nil
}

// Register creates the account. Username and email are normalized to lower
// case before insert; a unique-index violation surfaces as
// *repository.DuplicateError so callers can name the colliding field.
func (s *RegistrationService) Register(ctx context.Context, username, email string, profileImageURL, phone *string) (*domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" {
		return nil, apperrors.NewValidationError("username and email are required", nil)
	}
	if phone != nil && !phonePattern.MatchString(*phone) {
		return nil, apperrors.NewValidationError("phone must match (XXX) XXX-XXXX", map[string]any{"phone": *phone})
	}

	user := &domain.User{
		Username:        username,
		Email:           email,
		ProfileImageURL: profileImageURL,
		Phone:           phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			s.rememberTaken(ctx, dup.Field, fieldValue(dup.Field, username, email))
			return nil, err
		}
		return nil, err
	}

	s.rememberTaken(ctx, domain.FieldUsername, username)
	s.rememberTaken(ctx, domain.FieldEmail, email)

	s.claimProfileImage(ctx, user)

	iconKind := ""
	if profileImageURL != nil {
		if ref, err := domain.DecodeIconRef(*profileImageURL); err == nil {
			iconKind = string(ref.Kind)
		}
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSignupCompleted,
		Timestamp: time.Now(),
		Payload: events.SignupCompletedPayload{
			UserID:   user.ID,
			Username: user.Username,
			HasPhone: phone != nil,
			IconKind: iconKind,
		},
	})

	return user, nil
}

// claimProfileImage promotes a staged upload referenced by the new row so
// the janitor cannot reap it, then persists the promoted URL. Claiming only
// after the insert succeeds keeps a duplicate-rejected draft's staged image
// available for the retry.
func (s *RegistrationService) claimProfileImage(ctx context.Context, user *domain.User) {
	if s.claimer == nil || user.ProfileImageURL == nil {
		return
	}
	claimed, err := s.claimer.ClaimStagedImage(ctx, *user.ProfileImageURL)
	if err != nil {
		s.logger.Warn("could not claim staged profile image",
			zap.String("user_id", user.ID), zap.Error(err))
		return
	}
	if claimed == *user.ProfileImageURL {
		return
	}
	updated, err := s.users.UpdateProfileImage(ctx, user.ID, claimed)
	if err != nil {
		s.logger.Warn("could not persist claimed profile image url",
			zap.String("user_id", user.ID), zap.Error(err))
		return
	}
	user.ProfileImageURL = updated.ProfileImageURL
}

func (s *RegistrationService) cachedTaken(ctx context.Context, field domain.UniqueField, value string) bool {
	if s.cache == nil {
		return false
	}
	n, err := s.cache.Exists(ctx, takenKey(field, value)).Result()
	return err == nil && n > 0
}

func (s *RegistrationService) rememberTaken(ctx context.Context, field domain.UniqueField, value string) {
	if s.cache == nil || value == "" {
		return
	}
	s.cache.Set(ctx, takenKey(field, value), "1", takenCacheTTL)
}

func takenKey(field domain.UniqueField, value string) string {
	return "uniq:taken:" + string(field) + ":" + value
}

func fieldValue(field domain.UniqueField, username, email string) string {
	if field == domain.FieldEmail {
		return email
	}
	return username
}
