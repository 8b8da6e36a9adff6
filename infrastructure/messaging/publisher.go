// Package messaging provides the domain event publishing backend.
package messaging

import (
	"context"

	"go.uber.org/zap"

	"stylegraph/domain/events"
)

// LogPublisher records domain events to the structured log. The service
// has no downstream consumers for its events, so the log is the event
// stream of record.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a publisher writing to the given logger
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish records one domain event
func (p *LogPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.logger.Info("domain event",
		zap.String("event_type", event.GetEventType()),
		zap.String("aggregate_id", event.GetAggregateID()),
		zap.Int("version", event.GetVersion()),
		zap.Time("timestamp", event.GetTimestamp()))
	return nil
}
