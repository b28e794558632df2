package producer

import (
	"context"
	"time"

	"hrms-lite/internal/events"

	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

// ProcessEvents writes queued events until ctx is done, then flushes whatever
// is still queued.
func (p *Publisher) ProcessEvents(ctx context.Context) {
	log := p.logger.Named("worker")
	log.Info("audit worker started", zap.Int("buffer", cap(p.queue)))

	for {
		select {
		case <-ctx.Done():
			p.flush(log)
			log.Info("audit worker stopped")
			return
		case event := <-p.queue:
			p.write(context.Background(), log, event)
		}
	}
}

func (p *Publisher) flush(log *zap.Logger) {
	for {
		select {
		case event := <-p.queue:
			p.write(context.Background(), log, event)
		default:
			return
		}
	}
}

func (p *Publisher) write(parent context.Context, log *zap.Logger, event events.ConsoleEvent) {
	ctx, cancel := context.WithTimeout(parent, writeTimeout)
	defer cancel()

	if err := publishEvent(ctx, p.writer, event); err != nil {
		log.Error("publish audit event failed",
			zap.String("event_type", event.EventType),
			zap.String("aggregate_id", event.AggregateID),
			zap.Error(err),
		)
		return
	}

	log.Debug("audit event sent",
		zap.String("event_type", event.EventType),
		zap.String("aggregate_id", event.AggregateID),
	)
}
