package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventMatchCreated   EventType = "match.created"
	EventMatchClosed    EventType = "match.closed"
	EventFineAssessed   EventType = "match.fine.assessed"
	EventMovementPosted EventType = "ledger.movement.posted"
	EventCaptainChosen  EventType = "match.captain.chosen"

	EventTeamMovementPosted EventType = "ledger.team.movement.posted"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateMatch  AggregateType = "match"
	AggregateMember AggregateType = "member"
	AggregateLedger AggregateType = "ledger"
)

// OutboxDraft is the payload written to the event_outbox table.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"eventId"`
	AggregateType AggregateType   `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	EventType     EventType       `json:"eventType"`
	PartitionKey  string          `json:"partitionKey"`
	Headers       json.RawMessage `json:"headers"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// OutboxRow is an outbox event as read back by the poller.
type OutboxRow struct {
	SeqID int64
	OutboxDraft
}
