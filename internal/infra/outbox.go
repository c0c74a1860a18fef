package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/guard"
	"github.com/matchday/platform/internal/repository"
)

// TopicPrefix namespaces every topic the relay writes to.
const TopicPrefix = "matchday"

// Topic returns the Kafka topic of an outbox event: matchday.<aggregate>.<event>.
func Topic(row domain.OutboxRow) string {
	return TopicPrefix + "." + string(row.AggregateType) + "." + string(row.EventType)
}

// OutboxPoller relays event_outbox rows to Kafka and deletes them once published.
// Rows are relayed in sequence order; the first failure ends the batch so
// later events of the same aggregate never overtake it.
type OutboxPoller struct {
	db        repository.DBTX
	repo      repository.OutboxRepository
	publisher Publisher
	breaker   *guard.CircuitBreaker
	clock     clockwork.Clock
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// NewOutboxPoller creates a new outbox poller.
func NewOutboxPoller(
	db repository.DBTX,
	repo repository.OutboxRepository,
	publisher Publisher,
	clock clockwork.Clock,
	logger *slog.Logger,
	interval time.Duration,
	batchSize int,
) *OutboxPoller {
	return &OutboxPoller{
		db:        db,
		repo:      repo,
		publisher: publisher,
		breaker:   guard.NewCircuitBreaker(clock, 5, 30*time.Second),
		clock:     clock,
		logger:    logger,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run polls until ctx is cancelled.
func (p *OutboxPoller) Run(ctx context.Context) {
	p.logger.Info("outbox poller started", "interval", p.interval, "batch_size", p.batchSize)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox poller stopped")
			return
		case <-ticker.Chan():
			if _, err := p.Poll(ctx); err != nil {
				p.logger.Error("outbox poll error", "error", err)
			}
		}
	}
}

// Start runs the poller in a goroutine.
func (p *OutboxPoller) Start(ctx context.Context) {
	go p.Run(ctx)
}

type relayMessage struct {
	EventID       string          `json:"event_id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// Poll relays one batch and returns how many events were published.
func (p *OutboxPoller) Poll(ctx context.Context) (int, error) {
	rows, err := p.repo.FetchUnpublishedRows(ctx, p.db, p.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch outbox: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	published := make([]int64, 0, len(rows))
	for _, row := range rows {
		topic := Topic(row)
		if res := p.breaker.Check(ctx, topic); !res.Allowed {
			p.logger.Warn("outbox relay paused", "topic", topic, "reason", res.Reason)
			break
		}

		msg, err := json.Marshal(relayMessage{
			EventID:       row.EventID.String(),
			AggregateType: string(row.AggregateType),
			AggregateID:   row.AggregateID,
			EventType:     string(row.EventType),
			Payload:       row.Payload,
			OccurredAt:    row.OccurredAt,
		})
		if err != nil {
			return 0, fmt.Errorf("marshal event %s: %w", row.EventID, err)
		}

		if err := p.publisher.Publish(ctx, topic, []byte(row.PartitionKey), msg); err != nil {
			p.breaker.RecordFailure(topic)
			p.logger.Error("kafka publish failed", "event_id", row.EventID, "topic", topic, "error", err)
			break
		}
		p.breaker.RecordSuccess(topic)
		published = append(published, row.SeqID)
	}

	if err := p.repo.MarkPublished(ctx, p.db, published); err != nil {
		return 0, fmt.Errorf("mark published: %w", err)
	}

	p.logger.Debug("outbox poll complete", "fetched", len(rows), "published", len(published))
	return len(published), nil
}
