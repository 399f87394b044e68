package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pick-your-pour/signup-service/internal/domain"
	"github.com/pick-your-pour/signup-service/internal/events"
	"github.com/pick-your-pour/signup-service/internal/repository"
	apperrors "github.com/pick-your-pour/signup-service/pkg/util"
)

// TrackingService appends visitor interaction events. It is best-effort from
// the caller's perspective: the workflow never blocks on it.
type TrackingService struct {
	visits repository.VisitorEventRepository
	disp   events.Dispatcher
}

// NewTrackingService builds the service.
func NewTrackingService(visits repository.VisitorEventRepository, disp events.Dispatcher) *TrackingService {
	return &TrackingService{visits: visits, disp: disp}
}

// Track records one interaction. eventType and page are required; element
// and ip are optional context.
func (s *TrackingService) Track(ctx context.Context, eventType, page, element string, ip *string) (*domain.VisitorEvent, error) {
	if eventType == "" || page == "" {
		return nil, apperrors.NewValidationError("eventType and page are required", nil)
	}

	event := &domain.VisitorEvent{
		EventType: eventType,
		Page:      page,
		Element:   element,
		IPAddress: ip,
	}
	if err := s.visits.Create(ctx, event); err != nil {
		return nil, err
	}

	_ = s.disp.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventVisitorRecorded,
		Timestamp: time.Now(),
		Payload: events.VisitorRecordedPayload{
			EventID:   event.ID,
			EventType: event.EventType,
			Page:      event.Page,
			Element:   event.Element,
		},
	})

	return event, nil
}
