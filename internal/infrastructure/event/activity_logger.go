package event

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ActivityLogger writes every domain event to the log as an activity record
type ActivityLogger struct {
	logger *zap.Logger
}

// NewActivityLogger creates the subscriber
func NewActivityLogger(base *zap.Logger) *ActivityLogger {
	if base == nil {
		base = zap.NewNop()
	}
	return &ActivityLogger{logger: base.Named("activity")}
}

// Handle logs the event with the request's correlation fields
func (a *ActivityLogger) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.Int64("aggregate_id", event.AggregateID()),
		zap.Time("occurred_at", event.OccurredAt()),
	}
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if userID, ok := logger.GetUserID(ctx); ok {
		fields = append(fields, zap.Int64("actor_id", userID))
	}
	a.logger.Info("Activity", fields...)
	return nil
}

// EventTypes returns nil so the logger receives every event
func (a *ActivityLogger) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*ActivityLogger)(nil)
