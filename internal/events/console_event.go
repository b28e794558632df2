package events

import (
	"context"
	"time"

	"hrms-lite/internal/shared/contextutil"
)

const ConsoleAuditTopic = "hrms.console.audit.v1"

const (
	EmployeeCreated  = "employee.created"
	EmployeeDeleted  = "employee.deleted"
	AttendanceMarked = "attendance.marked"
	ServerLifecycle  = "server.lifecycle"
)

// ConsoleEvent records a mutation the console sent to the backend, or a
// server lifecycle change.
type ConsoleEvent struct {
	EventType   string            `json:"event_type"`
	AggregateID string            `json:"aggregate_id"`
	SessionID   string            `json:"session_id,omitempty"`
	RequestID   string            `json:"request_id,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

// New stamps an event with the tracing metadata carried by ctx.
func New(ctx context.Context, eventType, aggregateID string, attrs map[string]string) ConsoleEvent {
	md := contextutil.ExtractMetadata(ctx)
	return ConsoleEvent{
		EventType:   eventType,
		AggregateID: aggregateID,
		SessionID:   md.SessionID,
		RequestID:   md.RequestID,
		Attributes:  attrs,
		OccurredAt:  time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event ConsoleEvent) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ConsoleEvent) error {
	return nil
}
