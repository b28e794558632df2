package producer

import (
	"context"
	"encoding/json"
	"errors"

	"hrms-lite/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var ErrQueueFull = errors.New("audit queue is full")

// MessageWriter is the part of *kafkago.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Publisher queues console events; ProcessEvents drains the queue to Kafka so
// a slow broker never holds up a page response.
type Publisher struct {
	writer MessageWriter
	queue  chan events.ConsoleEvent
	logger *zap.Logger
}

func NewPublisher(writer MessageWriter, buffer int, logger ...*zap.Logger) *Publisher {
	l := zap.L().Named("kafka.producer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kafka.producer")
	}
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{
		writer: writer,
		queue:  make(chan events.ConsoleEvent, buffer),
		logger: l,
	}
}

func (p *Publisher) Publish(ctx context.Context, event events.ConsoleEvent) error {
	select {
	case p.queue <- event:
		return nil
	default:
		p.logger.Warn("audit event dropped",
			zap.String("event_type", event.EventType),
			zap.String("aggregate_id", event.AggregateID),
		)
		return ErrQueueFull
	}
}

func publishEvent(ctx context.Context, writer MessageWriter, event events.ConsoleEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafkago.Message{
		Topic: events.ConsoleAuditTopic,
		Key:   []byte(event.AggregateID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "request_id", Value: []byte(event.RequestID)},
		},
	}

	return writer.WriteMessages(ctx, msg)
}
