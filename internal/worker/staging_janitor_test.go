package worker

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pick-your-pour/signup-service/internal/events"
	"github.com/pick-your-pour/signup-service/internal/persistence"
	"github.com/pick-your-pour/signup-service/internal/service"
)

type memStore struct {
	objects map[string]time.Time
}

func (m *memStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	m.objects[key] = time.Now()
	return nil
}

func (m *memStore) Copy(ctx context.Context, srcKey, dstKey string) error {
	m.objects[dstKey] = time.Now()
	return nil
}

func (m *memStore) List(ctx context.Context, prefix string) ([]persistence.ObjectInfo, error) {
	var out []persistence.ObjectInfo
	for k, ts := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, persistence.ObjectInfo{Key: k, LastModified: ts})
		}
	}
	return out, nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memStore) PublicURL(key string) string { return "https://cdn.test/" + key }

func TestSweepRemovesOnlyExpiredStagedObjects(t *testing.T) {
	now := time.Now()
	store := &memStore{objects: map[string]time.Time{
		"staging/draft-a/old.jpg":   now.Add(-3 * time.Hour),
		"staging/draft-b/fresh.png": now.Add(-10 * time.Minute),
		"profiles/kept.jpg":         now.Add(-24 * time.Hour),
	}}

	j := NewStagingJanitor(store, 2*time.Hour, time.Hour, zap.NewNop())
	j.now = func() time.Time { return now }

	require.NoError(t, j.Sweep(context.Background()))

	_, oldExists := store.objects["staging/draft-a/old.jpg"]
	assert.False(t, oldExists)
	_, freshExists := store.objects["staging/draft-b/fresh.png"]
	assert.True(t, freshExists)
	_, profileExists := store.objects["profiles/kept.jpg"]
	assert.True(t, profileExists, "non-staging keys are never touched")
}

func TestSweepSparesClaimedUploads(t *testing.T) {
	now := time.Now()
	store := &memStore{objects: map[string]time.Time{}}
	assets := service.NewAssetService(store, nil, events.NewInMemoryDispatcher(), zap.NewNop())
	ctx := context.Background()

	staged, _, err := assets.UploadProfileImage(ctx, "draft-session-1", []byte("jpegdata"), "image/jpeg")
	require.NoError(t, err)
	claimed, err := assets.ClaimStagedImage(ctx, staged)
	require.NoError(t, err)

	// Age everything well past the TTL before sweeping.
	for k := range store.objects {
		store.objects[k] = now.Add(-3 * time.Hour)
	}

	j := NewStagingJanitor(store, 2*time.Hour, time.Hour, zap.NewNop())
	j.now = func() time.Time { return now }
	require.NoError(t, j.Sweep(ctx))

	key := strings.TrimPrefix(claimed, "https://cdn.test/")
	_, ok := store.objects[key]
	assert.True(t, ok, "an upload a committed account references must survive sweeps")
	assert.Len(t, store.objects, 1, "the staged original is gone once claimed")
}
