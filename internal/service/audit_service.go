package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/shelter-kit/shelter-service/internal/events"
)

// AuditService writes a structured audit record for every domain event.
// Handlers run synchronously inside the publishing request.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to all audited event types.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventAnimalCreated,
		events.EventAnimalAdopted,
		events.EventPostCreated,
		events.EventPostDeleted,
		events.EventCommentCreated,
		events.EventRoleAssigned,
		events.EventAccountToggled,
	} {
		a.dispatcher.Subscribe(eventType, a.record)
	}
}

func (a *AuditService) record(_ context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event", string(event.Type)),
		zap.String("resource", event.Resource),
		zap.String("resource_id", event.ResourceID),
		zap.String("actor_id", event.Actor.UserID),
		zap.String("actor", event.Actor.Username),
		zap.Any("payload", event.Payload),
	)
	return nil
}
