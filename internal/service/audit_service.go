package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/pick-your-pour/signup-service/internal/events"
)

// AuditService writes a structured audit line for every domain event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventSignupCompleted, a.handleSignupCompleted)
	a.dispatcher.Subscribe(events.EventProfileImageUploaded, a.handleProfileImageUploaded)
	a.dispatcher.Subscribe(events.EventVisitorRecorded, a.handleVisitorRecorded)
}

func (a *AuditService) handleSignupCompleted(ctx context.Context, event events.Event) error {
	a.logger.Info("SignupCompleted", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleProfileImageUploaded(ctx context.Context, event events.Event) error {
	a.logger.Info("ProfileImageUploaded", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleVisitorRecorded(ctx context.Context, event events.Event) error {
	a.logger.Debug("VisitorEventRecorded", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}
