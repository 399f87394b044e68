package signup

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pick-your-pour/signup-service/internal/api/dto"
	"github.com/pick-your-pour/signup-service/internal/domain"
)

type fakeChecker struct {
	mu    sync.Mutex
	taken map[domain.UniqueField]map[string]bool
	err   error
	calls int
}

func newFakeChecker() *fakeChecker {
	return &fakeChecker{taken: map[domain.UniqueField]map[string]bool{
		domain.FieldUsername: {},
		domain.FieldEmail:    {},
	}}
}

func (f *fakeChecker) markTaken(field domain.UniqueField, value string) {
	f.taken[field][value] = true
}

func (f *fakeChecker) CheckUnique(ctx context.Context, field domain.UniqueField, value string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return !f.taken[field][value], nil
}

type createCall struct {
	username, email string
	imageURL, phone *string
}

type fakeCreator struct {
	err   error
	calls []createCall
}

func (f *fakeCreator) CreateAccount(ctx context.Context, username, email string, imageURL, phone *string) (*dto.UserResponse, error) {
	f.calls = append(f.calls, createCall{username: username, email: email, imageURL: imageURL, phone: phone})
	if f.err != nil {
		return nil, f.err
	}
	return &dto.UserResponse{ID: "user-1", Username: username, Email: email, ProfileImageURL: imageURL, Phone: phone}, nil
}

type fakeUploader struct {
	url     string
	err     error
	owners  []string
	uploads [][]byte
}

func (f *fakeUploader) UploadImage(ctx context.Context, ownerKey string, data []byte, mimeType string) (string, error) {
	f.owners = append(f.owners, ownerKey)
	f.uploads = append(f.uploads, data)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeTracker struct {
	mu       sync.Mutex
	elements []string
	err      error
}

func (f *fakeTracker) Track(ctx context.Context, eventType, page, element string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.elements = append(f.elements, element)
	return f.err
}

func (f *fakeTracker) seen(element string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.elements {
		if e == element {
			return true
		}
	}
	return false
}

type fixture struct {
	wf       *Workflow
	checker  *fakeChecker
	creator  *fakeCreator
	uploader *fakeUploader
	tracker  *fakeTracker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		checker:  newFakeChecker(),
		creator:  &fakeCreator{},
		uploader: &fakeUploader{url: "https://cdn.test/staging/x/y.jpg"},
		tracker:  &fakeTracker{},
	}
	f.wf = NewWorkflow(context.Background(), Dependencies{
		Checker:  f.checker,
		Creator:  f.creator,
		Uploader: f.uploader,
		Tracker:  f.tracker,
	})
	t.Cleanup(f.wf.Close)
	return f
}

func (f *fixture) atIconSelection(t *testing.T) {
	t.Helper()
	f.wf.SetUsername("newuser")
	f.wf.SetEmail("new@x.com")
	require.NoError(t, f.wf.SubmitCredentials())
	require.Equal(t, StepIconSelection, f.wf.Step())
}

func TestCredentialsHappyPathReachesIconSelectionAtFiftyPercent(t *testing.T) {
	f := newFixture(t)
	f.wf.SetUsername("newuser")
	f.wf.SetEmail("new@x.com")

	require.NoError(t, f.wf.SubmitCredentials())

	assert.Equal(t, StepIconSelection, f.wf.Step())
	assert.Equal(t, 50, f.wf.Progress())
	assert.Equal(t, 2, f.checker.calls, "both checks issued")
}

func TestCredentialsRequireBothFields(t *testing.T) {
	f := newFixture(t)
	f.wf.SetUsername("newuser")

	err := f.wf.SubmitCredentials()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, StepCredentials, f.wf.Step())
	assert.Zero(t, f.checker.calls, "local validation makes no network call")
}

func TestTakenUsernameRefusesTransitionAndRetainsDraft(t *testing.T) {
	f := newFixture(t)
	f.checker.markTaken(domain.FieldUsername, "taken")
	f.wf.SetUsername("taken")
	f.wf.SetEmail("new@x.com")

	err := f.wf.SubmitCredentials()

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.FieldUsername, conflict.Field)
	assert.Equal(t, StepCredentials, f.wf.Step())
	assert.Equal(t, "taken", f.wf.Username(), "draft retained for correction")
	assert.Empty(t, f.creator.calls, "no create attempt with known-conflicting data")

	// correct and retry
	f.wf.SetUsername("fresh")
	require.NoError(t, f.wf.SubmitCredentials())
	assert.Equal(t, StepIconSelection, f.wf.Step())
}

func TestCheckFailureBlocksConservatively(t *testing.T) {
	f := newFixture(t)
	f.checker.err = errors.New("backend down")
	f.wf.SetUsername("newuser")
	f.wf.SetEmail("new@x.com")

	err := f.wf.SubmitCredentials()

	require.Error(t, err)
	assert.Equal(t, StepCredentials, f.wf.Step())
	assert.Empty(t, f.creator.calls)
}

func TestDefaultIconFollowsUsernameUntilChosen(t *testing.T) {
	f := newFixture(t)
	f.wf.SetUsername("john paul dram")
	assert.Equal(t, "JPD", f.wf.Icon().Initials)

	f.wf.SetUsername("cork dork")
	assert.Equal(t, "CD", f.wf.Icon().Initials, "regenerated after username change")
}

func TestCustomIconBuilderGatesOnExactLabelLength(t *testing.T) {
	f := newFixture(t)
	f.atIconSelection(t)
	require.NoError(t, f.wf.OpenCustomIconBuilder())

	err := f.wf.SubmitCustomIcon("#722F37", "#FFFFF0", "AB")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, StepCustomIconBuilder, f.wf.Step(), "builder stays open")

	err = f.wf.SubmitCustomIcon("#722F37", "#FFFFF0", "ABCD")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, StepCustomIconBuilder, f.wf.Step())

	require.NoError(t, f.wf.SubmitCustomIcon("#722F37", "#FFFFF0", "ABC"))
	assert.Equal(t, StepIconSelection, f.wf.Step())
	assert.Equal(t, domain.IconCustom, f.wf.Icon().Kind)
	assert.Equal(t, 75, f.wf.Progress())
}

func TestAttachImageValidatesBeforeAnyNetworkCall(t *testing.T) {
	f := newFixture(t)
	f.atIconSelection(t)

	err := f.wf.AttachImage([]byte("gifdata"), "image/gif")
	assert.Error(t, err)
	assert.Equal(t, StepIconSelection, f.wf.Step())

	sixMiB := bytes.Repeat([]byte{0x1}, 6<<20)
	err = f.wf.AttachImage(sixMiB, "image/png")
	assert.Error(t, err)
	assert.Equal(t, StepIconSelection, f.wf.Step())
	assert.Empty(t, f.uploader.uploads, "rejections never reach the uploader")

	fourMiB := bytes.Repeat([]byte{0x2}, 4<<20)
	require.NoError(t, f.wf.AttachImage(fourMiB, "image/jpeg"))
	assert.Equal(t, StepImageCropConfirmation, f.wf.Step())
}

func TestConfirmCropUploadsAndSelectsURL(t *testing.T) {
	f := newFixture(t)
	f.atIconSelection(t)
	require.NoError(t, f.wf.AttachImage([]byte("jpegdata"), "image/jpeg"))

	require.NoError(t, f.wf.ConfirmCrop([]byte("cropped")))

	assert.Equal(t, StepIconSelection, f.wf.Step())
	assert.Equal(t, domain.IconUploaded, f.wf.Icon().Kind)
	assert.Equal(t, f.uploader.url, f.wf.Icon().URL)
	require.Len(t, f.uploader.owners, 1)
	assert.Equal(t, f.wf.SessionKey(), f.uploader.owners[0])
}

func TestConfirmCropFailureStaysForRetry(t *testing.T) {
	f := newFixture(t)
	f.atIconSelection(t)
	require.NoError(t, f.wf.AttachImage([]byte("jpegdata"), "image/jpeg"))
	f.uploader.err = errors.New("storage unavailable")

	err := f.wf.ConfirmCrop(nil)

	require.Error(t, err)
	assert.Equal(t, StepImageCropConfirmation, f.wf.Step())
	assert.NotEqual(t, domain.IconUploaded, f.wf.Icon().Kind)
}

func TestValidPhoneCommitsDirectly(t *testing.T) {
	f := newFixture(t)
	f.atIconSelection(t)
	f.wf.SetPhone("1234567890")

	require.NoError(t, f.wf.Submit())

	assert.Equal(t, StepCommitted, f.wf.Step())
	assert.Equal(t, 100, f.wf.Progress())
	require.Len(t, f.creator.calls, 1)
	call := f.creator.calls[0]
	require.NotNil(t, call.phone)
	assert.Equal(t, "(123) 456-7890", *call.phone)
	require.NotNil(t, call.imageURL, "generated icon travels with the commit")
}

func TestMalformedPhoneBlocksSubmitButNotSkip(t *testing.T) {
	f := newFixture(t)
	f.atIconSelection(t)
	f.wf.SetPhone("55512")

	err := f.wf.Submit()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, StepIconSelection, f.wf.Step())
	assert.Empty(t, f.creator.calls)

	require.NoError(t, f.wf.Skip())
	assert.Equal(t, StepConfirmationPrompt, f.wf.Step())
}

func TestAbsentPhoneRoutesThroughConfirmationGate(t *testing.T) {
	f := newFixture(t)
	f.atIconSelection(t)

	require.NoError(t, f.wf.Submit())
	assert.Equal(t, StepConfirmationPrompt, f.wf.Step())

	require.NoError(t, f.wf.BackToIconSelection())
	assert.Equal(t, StepIconSelection, f.wf.Step())

	require.NoError(t, f.wf.Submit())
	require.NoError(t, f.wf.AcceptNoTexts())

	assert.Equal(t, StepCommitted, f.wf.Step())
	require.Len(t, f.creator.calls, 1)
	assert.Nil(t, f.creator.calls[0].phone)
}

func TestDuplicateAtCommitSurfacesFieldAndAllowsRetry(t *testing.T) {
	f := newFixture(t)
	f.atIconSelection(t)
	f.creator.err = &ConflictError{Field: domain.FieldEmail}

	require.NoError(t, f.wf.Submit())
	err := f.wf.AcceptNoTexts()

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.FieldEmail, conflict.Field)
	assert.Equal(t, StepConfirmationPrompt, f.wf.Step(), "retry possible without re-entry")

	f.creator.err = nil
	require.NoError(t, f.wf.AcceptNoTexts())
	assert.Equal(t, StepCommitted, f.wf.Step())
}

func TestCloseDiscardsDraftAndRefusesFurtherUse(t *testing.T) {
	f := newFixture(t)
	f.atIconSelection(t)

	f.wf.Close()

	assert.Equal(t, StepClosed, f.wf.Step())
	assert.Error(t, f.wf.Submit())
	assert.Error(t, f.wf.SubmitCredentials())
}

func TestTrackerFailureNeverDisturbsFlow(t *testing.T) {
	f := newFixture(t)
	f.tracker.err = errors.New("analytics down")

	f.atIconSelection(t)
	require.NoError(t, f.wf.Submit())
	require.NoError(t, f.wf.AcceptNoTexts())
	assert.Equal(t, StepCommitted, f.wf.Step())

	assert.Eventually(t, func() bool {
		return f.tracker.seen("committed")
	}, time.Second, 10*time.Millisecond)
}
