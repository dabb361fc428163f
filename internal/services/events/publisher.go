package events

import (
	"context"
	"time"

	domain "github.com/esmeraldas/zoosanitario/internal/domain/entities"
	"github.com/esmeraldas/zoosanitario/internal/domain/repositories"
	"go.uber.org/zap"
)

// Publisher hands domain events to a message queue. A Publisher without
// a queue only logs.
type Publisher struct {
	queue  repositories.MessageQueueProducer
	logger *zap.Logger
	now    func() time.Time
}

func NewPublisher(queue repositories.MessageQueueProducer, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{queue: queue, logger: logger, now: time.Now}
}

// Publish builds and enqueues an event. Publishing is best effort: a
// failure is logged and never fails the operation that produced it.
func (p *Publisher) Publish(ctx context.Context, kind domain.EventType, subject domain.ID, payload any) {
	if p == nil {
		return
	}
	event, err := domain.NewEvent(kind, subject, payload, p.now())
	if err != nil {
		p.logger.Warn("event encode failed", zap.String("type", string(kind)), zap.Error(err))
		return
	}
	if p.queue == nil {
		p.logger.Debug("event", zap.String("type", string(kind)), zap.String("subject", subject.String()))
		return
	}
	select {
	case p.queue.ToProduceBuffered() <- event:
	case <-ctx.Done():
		p.logger.Warn("event dropped", zap.String("type", string(kind)), zap.Error(ctx.Err()))
	}
}
