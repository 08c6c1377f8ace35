package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"school-service/internal/metrics"

	"github.com/nats-io/nats.go"
)

// Producer publishes change events to NATS on "<subject>.<entity>".
type Producer struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
	metrics *metrics.MessagingMetrics
}

func NewProducer(url string, subject string, logger *slog.Logger, m *metrics.MessagingMetrics) (*Producer, error) {
	nc, err := nats.Connect(url, nats.Name("school-service"))
	if err != nil {
		return nil, err
	}

	logger.Info("NATS producer initialized", "url", url, "subject", subject)

	return &Producer{
		conn:    nc,
		subject: subject,
		logger:  logger,
		metrics: m,
	}, nil
}

func (p *Producer) Publish(ctx context.Context, event Event) error {
	subject := p.subject + "." + event.Entity

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return err
	}

	start := time.Now()
	err = p.conn.Publish(subject, payload)
	p.metrics.RecordPublish(ctx, subject, time.Since(start), err)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event to NATS", "error", err, "subject", subject)
		return err
	}

	p.logger.DebugContext(ctx, "event published", "subject", subject, "type", event.Type, "id", event.ID)
	return nil
}

func (p *Producer) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
