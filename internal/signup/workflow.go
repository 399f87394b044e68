package signup

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pick-your-pour/signup-service/internal/api/dto"
	"github.com/pick-your-pour/signup-service/internal/domain"
)

// Step identifies a position in the sign-up workflow.
type Step string

const (
	StepCredentials           Step = "credentials"
	StepIconSelection         Step = "icon_selection"
	StepCustomIconBuilder     Step = "custom_icon_builder"
	StepImageCropConfirmation Step = "image_crop_confirmation"
	StepConfirmationPrompt    Step = "confirmation_prompt"
	StepCommitted             Step = "committed"
	StepClosed                Step = "closed"
)

const (
	// MaxImageBytes caps uploads client-side so no request is made for a
	// payload the server would reject anyway.
	MaxImageBytes = 5 << 20

	// CropOutputSize is the fixed square dimension of an accepted crop.
	CropOutputSize = 256

	// CustomIconTextLen is the exact label length the builder accepts.
	CustomIconTextLen = 3

	trackPage = "signup-modal"
)

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// Dependencies are the backend ports the workflow drives.
type Dependencies struct {
	Checker  UniquenessChecker
	Creator  AccountCreator
	Uploader AssetUploader
	Tracker  EventTracker
	Logger   *zap.Logger
}

// Workflow is the client-side sign-up state machine. It is single-threaded
// cooperative: callers drive it from one goroutine and each backend call
// suspends the active step. Close aborts in-flight requests by cancelling
// the workflow context.
type Workflow struct {
	deps       Dependencies
	sessionKey string

	ctx    context.Context
	cancel context.CancelFunc

	step Step

	username string
	email    string

	icon       domain.IconRef
	iconChosen bool

	phoneDigits string

	pendingImage     []byte
	pendingImageMime string

	created *dto.UserResponse
}

// NewWorkflow opens a fresh draft. The draft lives only inside the Workflow
// until final commit; Close discards it.
func NewWorkflow(ctx context.Context, deps Dependencies) *Workflow {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	wctx, cancel := context.WithCancel(ctx)
	return &Workflow{
		deps:       deps,
		sessionKey: "draft-" + uuid.NewString(),
		ctx:        wctx,
		cancel:     cancel,
		step:       StepCredentials,
	}
}

// Step returns the current workflow position.
func (w *Workflow) Step() Step {
	return w.step
}

// SessionKey identifies this draft for staged uploads.
func (w *Workflow) SessionKey() string {
	return w.sessionKey
}

// CreatedUser returns the committed account, or nil before commit.
func (w *Workflow) CreatedUser() *dto.UserResponse {
	return w.created
}

// SetUsername updates the draft. While no icon has been chosen explicitly,
// the default icon regenerates from the new username.
func (w *Workflow) SetUsername(username string) {
	w.username = strings.TrimSpace(username)
	if !w.iconChosen {
		w.icon = domain.IconRef{}
	}
}

// SetEmail updates the draft.
func (w *Workflow) SetEmail(email string) {
	w.email = strings.TrimSpace(email)
}

// Username returns the draft username.
func (w *Workflow) Username() string { return w.username }

// Email returns the draft email.
func (w *Workflow) Email() string { return w.email }

// Icon returns the selected icon, or the generated fallback when none has
// been chosen yet.
func (w *Workflow) Icon() domain.IconRef {
	if !w.iconChosen {
		if w.icon.Kind == "" && w.username != "" {
			w.icon = GenerateAvatar(w.username)
		}
	}
	return w.icon
}

// SubmitCredentials attempts Credentials → IconSelection. Both uniqueness
// checks run in parallel and both must confirm availability; a taken field
// refuses the transition with a *ConflictError naming it, and the draft is
// retained for correction. Any check failure blocks conservatively.
func (w *Workflow) SubmitCredentials() error {
	if err := w.requireStep(StepCredentials); err != nil {
		return err
	}
	if w.username == "" || w.email == "" {
		return validationErrorf("username and email are required")
	}

	username := strings.ToLower(w.username)
	email := strings.ToLower(w.email)

	var usernameFree, emailFree bool
	g, gctx := errgroup.WithContext(w.ctx)
	g.Go(func() error {
		ok, err := w.deps.Checker.CheckUnique(gctx, domain.FieldUsername, username)
		usernameFree = ok
		return err
	})
	g.Go(func() error {
		ok, err := w.deps.Checker.CheckUnique(gctx, domain.FieldEmail, email)
		emailFree = ok
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("availability check failed: %w", err)
	}

	if !usernameFree {
		return &ConflictError{Field: domain.FieldUsername}
	}
	if !emailFree {
		return &ConflictError{Field: domain.FieldEmail}
	}

	w.step = StepIconSelection
	w.track("transition", "credentials-next")
	return nil
}

// SelectPreset chooses a gallery icon.
func (w *Workflow) SelectPreset(id string) error {
	if err := w.requireStep(StepIconSelection); err != nil {
		return err
	}
	if id == "" {
		return validationErrorf("preset id is required")
	}
	w.icon = domain.PresetIcon(id)
	w.iconChosen = true
	w.track("select", "preset-icon")
	return nil
}

// OpenCustomIconBuilder enters the builder. No precondition beyond being at
// icon selection.
func (w *Workflow) OpenCustomIconBuilder() error {
	if err := w.requireStep(StepIconSelection); err != nil {
		return err
	}
	w.step = StepCustomIconBuilder
	w.track("transition", "custom-icon-open")
	return nil
}

// SubmitCustomIcon attempts CustomIconBuilder → IconSelection. The label
// must be exactly 3 characters; otherwise the builder stays open.
func (w *Workflow) SubmitCustomIcon(background, foreground, text string) error {
	if err := w.requireStep(StepCustomIconBuilder); err != nil {
		return err
	}
	if len([]rune(text)) != CustomIconTextLen {
		return validationErrorf("custom icon text must be exactly %d characters", CustomIconTextLen)
	}
	w.icon = domain.CustomIcon(background, foreground, text)
	w.iconChosen = true
	w.step = StepIconSelection
	w.track("transition", "custom-icon-done")
	return nil
}

// AttachImage attempts IconSelection → ImageCropConfirmation. The declared
// media type and size are validated before any network traffic; rejection
// leaves the step unchanged.
func (w *Workflow) AttachImage(data []byte, mimeType string) error {
	if err := w.requireStep(StepIconSelection); err != nil {
		return err
	}
	if !allowedImageTypes[mimeType] {
		return validationErrorf("profile image must be PNG or JPEG, got %s", mimeType)
	}
	if len(data) == 0 {
		return validationErrorf("profile image is empty")
	}
	if len(data) > MaxImageBytes {
		return validationErrorf("profile image exceeds the 5 MiB limit")
	}

	w.pendingImage = data
	w.pendingImageMime = mimeType
	w.step = StepImageCropConfirmation
	w.track("transition", "image-attached")
	return nil
}

// ConfirmCrop accepts the crop and submits the cropped bytes (square,
// CropOutputSize on a side, produced by the hosting UI) to the asset store.
// On success the returned URL becomes the selected icon and the workflow
// returns to icon selection; on failure it stays here for retry.
func (w *Workflow) ConfirmCrop(cropped []byte) error {
	if err := w.requireStep(StepImageCropConfirmation); err != nil {
		return err
	}
	if len(cropped) == 0 {
		cropped = w.pendingImage
	}
	if len(cropped) > MaxImageBytes {
		return validationErrorf("cropped image exceeds the 5 MiB limit")
	}

	url, err := w.deps.Uploader.UploadImage(w.ctx, w.sessionKey, cropped, w.pendingImageMime)
	if err != nil {
		return fmt.Errorf("image upload failed: %w", err)
	}

	w.icon = domain.UploadedIcon(url)
	w.iconChosen = true
	w.pendingImage = nil
	w.step = StepIconSelection
	w.track("transition", "crop-accepted")
	return nil
}

// SetPhone records raw phone input, keeping digits only. Entry is never
// rejected; format is checked at submit time.
func (w *Workflow) SetPhone(raw string) {
	w.phoneDigits = SanitizePhone(raw)
}

// Phone returns the draft phone, formatted when complete.
func (w *Workflow) Phone() string {
	return FormatPhone(w.phoneDigits)
}

// Submit is the final submission from icon selection. A valid phone commits
// directly; an absent phone routes through the confirmation gate; anything
// else is a validation error that blocks this path.
func (w *Workflow) Submit() error {
	if err := w.requireStep(StepIconSelection); err != nil {
		return err
	}
	if w.phoneDigits == "" {
		w.step = StepConfirmationPrompt
		w.track("transition", "confirm-no-phone")
		return nil
	}
	formatted := FormatPhone(w.phoneDigits)
	if !ValidPhone(formatted) {
		return validationErrorf("phone must be 10 digits")
	}
	return w.commit(&formatted)
}

// Skip declines text updates outright: the phone is discarded and the
// confirmation gate is shown regardless of what was typed.
func (w *Workflow) Skip() error {
	if err := w.requireStep(StepIconSelection); err != nil {
		return err
	}
	w.phoneDigits = ""
	w.step = StepConfirmationPrompt
	w.track("transition", "phone-skipped")
	return nil
}

// AcceptNoTexts resolves the confirmation gate by committing without a phone.
func (w *Workflow) AcceptNoTexts() error {
	if err := w.requireStep(StepConfirmationPrompt); err != nil {
		return err
	}
	return w.commit(nil)
}

// BackToIconSelection resolves the confirmation gate by returning to icon
// selection.
func (w *Workflow) BackToIconSelection() error {
	if err := w.requireStep(StepConfirmationPrompt); err != nil {
		return err
	}
	w.step = StepIconSelection
	w.track("transition", "confirm-back")
	return nil
}

// commit issues the account-creation request. On failure the step is left
// unchanged so the user can retry without re-entering data; a duplicate at
// commit surfaces as the same *ConflictError shape as the pre-check.
func (w *Workflow) commit(phone *string) error {
	icon := w.Icon()
	var imageURL *string
	if encoded := icon.Encode(); encoded != "" {
		imageURL = &encoded
	}

	user, err := w.deps.Creator.CreateAccount(w.ctx,
		strings.ToLower(w.username), strings.ToLower(w.email), imageURL, phone)
	if err != nil {
		return err
	}

	w.created = user
	w.step = StepCommitted
	w.track("transition", "committed")
	return nil
}

// Close abandons the workflow from any state, discarding the draft and
// cancelling whatever request is still in flight.
func (w *Workflow) Close() {
	if w.step == StepClosed {
		return
	}
	w.step = StepClosed
	w.cancel()
}

// Progress reports the indicator percentage the hosting screen renders.
func (w *Workflow) Progress() int {
	switch w.step {
	case StepCredentials:
		switch {
		case w.username != "" && w.email != "":
			return 50
		case w.username != "":
			return 25
		default:
			return 0
		}
	case StepIconSelection, StepCustomIconBuilder, StepImageCropConfirmation:
		if w.iconChosen {
			return 75
		}
		return 50
	case StepConfirmationPrompt:
		return 75
	case StepCommitted:
		return 100
	default:
		return 0
	}
}

func (w *Workflow) requireStep(want Step) error {
	if w.step == StepClosed {
		return validationErrorf("workflow is closed")
	}
	if w.step != want {
		return validationErrorf("not at %s (currently %s)", want, w.step)
	}
	return nil
}

// track fires an interaction event without ever blocking the workflow.
func (w *Workflow) track(eventType, element string) {
	if w.deps.Tracker == nil {
		return
	}
	ctx := w.ctx
	go func() {
		if err := w.deps.Tracker.Track(ctx, eventType, trackPage, element); err != nil {
			w.deps.Logger.Debug("event tracking failed", zap.Error(err))
		}
	}()
}
