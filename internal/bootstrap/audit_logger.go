package bootstrap

import (
	"context"

	"hrms-lite/internal/events"
)

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}

// MultiAuditLogger fans an entry out to every logger.
type MultiAuditLogger []AuditLogger

func (m MultiAuditLogger) Log(ctx context.Context, entry AuditLog) {
	for _, l := range m {
		l.Log(ctx, entry)
	}
}

// EventAuditLogger forwards lifecycle entries to the console audit stream.
type EventAuditLogger struct {
	publisher events.Publisher
}

func NewEventAuditLogger(publisher events.Publisher) *EventAuditLogger {
	return &EventAuditLogger{publisher: publisher}
}

func (l *EventAuditLogger) Log(ctx context.Context, entry AuditLog) {
	attrs := map[string]string{"message": entry.Message}
	for k, v := range entry.Meta {
		if s, ok := v.(string); ok {
			attrs[k] = s
		}
	}
	_ = l.publisher.Publish(ctx, events.New(ctx, events.ServerLifecycle, entry.Action, attrs))
}
