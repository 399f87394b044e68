package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/pick-your-pour/signup-service/internal/domain"
	"github.com/pick-your-pour/signup-service/internal/events"
	"github.com/pick-your-pour/signup-service/internal/persistence"
	"github.com/pick-your-pour/signup-service/internal/repository"
	apperrors "github.com/pick-your-pour/signup-service/pkg/util"
)

const (
	// MaxUploadBytes caps profile image payloads at 5 MiB.
	MaxUploadBytes = 5 << 20

	// StagingPrefix holds uploads not yet attached to a created user. The
	// janitor reaps entries older than the configured TTL.
	StagingPrefix = "staging/"

	// ProfilesPrefix holds claimed images. The janitor never touches it.
	ProfilesPrefix = "profiles/"
)

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// AssetService stores profile images and associates them with users.
type AssetService struct {
	store  persistence.ObjectStore
	users  repository.UserRepository
	disp   events.Dispatcher
	logger *zap.Logger
}

// NewAssetService builds the service.
func NewAssetService(store persistence.ObjectStore, users repository.UserRepository, disp events.Dispatcher, logger *zap.Logger) *AssetService {
	return &AssetService{store: store, users: users, disp: disp, logger: logger}
}

// UploadProfileImage validates and stores an image, returning its public
// URL. ownerKey is either the id of an already-created user, in which case
// the URL is attached to that row, or an opaque draft-session key, in which
// case the object stays under the staging prefix until the sign-up commit
// references it.
func (s *AssetService) UploadProfileImage(ctx context.Context, ownerKey string, data []byte, mimeType string) (string, *domain.User, error) {
	if ownerKey == "" {
		return "", nil, apperrors.NewValidationError("userId is required", nil)
	}
	if len(data) == 0 {
		return "", nil, apperrors.NewValidationError("profileImage is required", nil)
	}
	ext, ok := allowedImageTypes[mimeType]
	if !ok {
		return "", nil, apperrors.NewValidationError("profile image must be PNG or JPEG", map[string]any{"mimeType": mimeType})
	}
	if len(data) > MaxUploadBytes {
		return "", nil, apperrors.NewPayloadTooLarge("profile image exceeds 5 MiB")
	}

	key := fmt.Sprintf("%s%s/%s%s", StagingPrefix, ownerKey, uuid.NewString(), ext)
	if err := s.store.Put(ctx, key, data, mimeType); err != nil {
		return "", nil, err
	}
	url := s.store.PublicURL(key)

	user := s.attachIfUser(ctx, ownerKey, url)

	_ = s.disp.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventProfileImageUploaded,
		Timestamp: time.Now(),
		Payload: events.ProfileImageUploadedPayload{
			OwnerKey:  ownerKey,
			ImageURL:  url,
			SizeBytes: len(data),
			MimeType:  mimeType,
		},
	})

	return url, user, nil
}

// ClaimStagedImage moves a staged upload under the permanent profiles
// prefix and returns its new public URL. URLs that do not point into the
// staging prefix pass through unchanged, so encoded avatar refs and already
// claimed images are safe to hand in.
func (s *AssetService) ClaimStagedImage(ctx context.Context, url string) (string, error) {
	key, ok := stagedKey(url)
	if !ok {
		return url, nil
	}
	dst := ProfilesPrefix + uuid.NewString() + path.Ext(key)
	if err := s.store.Copy(ctx, key, dst); err != nil {
		return "", err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn("could not delete claimed staging object",
			zap.String("key", key), zap.Error(err))
	}
	return s.store.PublicURL(dst), nil
}

// stagedKey extracts the storage key from a URL that points into the
// staging prefix.
func stagedKey(url string) (string, bool) {
	idx := strings.Index(url, "/"+StagingPrefix)
	if idx < 0 {
		return "", false
	}
	return url[idx+1:], true
}

// attachIfUser links the upload to an existing user row when ownerKey names
// one. Draft-session keys fall through to nil.
func (s *AssetService) attachIfUser(ctx context.Context, ownerKey, url string) *domain.User {
	if _, err := uuid.Parse(ownerKey); err != nil {
		return nil
	}
	user, err := s.users.UpdateProfileImage(ctx, ownerKey, url)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("could not attach uploaded image to user",
				zap.String("owner_key", ownerKey), zap.Error(err))
		}
		return nil
	}
	return user
}
