package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/benchlab/gaia-eval-api/internal/models"
)

// ResultEvent announces a persisted grading outcome to downstream consumers.
type ResultEvent struct {
	UserID     string              `json:"user_id"`
	TaskID     string              `json:"task_id"`
	Status     models.ResultStatus `json:"status"`
	Verdict    string              `json:"verdict"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// EventPublisher emits result events. Implementations must be non-blocking
// from the coordinator's point of view: a publish failure is logged, never
// propagated into the grading flow.
type EventPublisher interface {
	PublishResult(ctx context.Context, event ResultEvent)
}

type natsEventPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSEventPublisher builds a publisher over an existing NATS connection.
// A nil connection yields a publisher that drops events.
func NewNATSEventPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) EventPublisher {
	if subject == "" {
		subject = "eval.results"
	}

	return &natsEventPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsEventPublisher) PublishResult(_ context.Context, event ResultEvent) {
	if p.conn == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to encode result event")
		return
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("subject", p.subject).Msg("failed to publish result event")
	}
}
