package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/campus-booking/internal/events"
)

// AuditSubscriber writes an audit line per domain event and keeps the stats
// cache consistent with writes.
type AuditSubscriber struct {
	dispatcher events.Dispatcher
	stats      *StatsService
	logger     *zap.Logger
}

// NewAuditSubscriber creates the subscriber. stats may be nil.
func NewAuditSubscriber(dispatcher events.Dispatcher, stats *StatsService, logger *zap.Logger) *AuditSubscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditSubscriber{
		dispatcher: dispatcher,
		stats:      stats,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditSubscriber) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		a.dispatcher.Subscribe(eventType, a.handleAudit)
	}
	a.dispatcher.Subscribe(events.EventUserChanged, a.handleStatsChange)
	a.dispatcher.Subscribe(events.EventResourceChanged, a.handleStatsChange)
	a.dispatcher.Subscribe(events.EventBookingCreated, a.handleStatsChange)
	a.dispatcher.Subscribe(events.EventBookingStatusChanged, a.handleStatsChange)
	a.dispatcher.Subscribe(events.EventBookingDeleted, a.handleStatsChange)
}

func (a *AuditSubscriber) handleAudit(_ context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("entity_id", event.EntityID),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditSubscriber) handleStatsChange(ctx context.Context, _ events.Event) error {
	if a.stats == nil {
		return nil
	}
	return a.stats.Invalidate(ctx)
}
