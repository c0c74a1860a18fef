package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

func newDraft(aggregate AggregateType, aggregateID string, evt EventType, payload any) OutboxDraft {
	data, _ := json.Marshal(payload)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: aggregate,
		AggregateID:   aggregateID,
		EventType:     evt,
		PartitionKey:  aggregateID,
		Headers:       json.RawMessage(`{}`),
		Payload:       data,
		OccurredAt:    time.Now(),
	}
}

// NewMovementPostedEvent creates the standard ledger event for an appended movement.
// Fines are tagged with their own event type so consumers can notify the member.
func NewMovementPostedEvent(mv *Movement, fine bool) OutboxDraft {
	evt := EventMovementPosted
	if fine {
		evt = EventFineAssessed
	}
	return newDraft(AggregateLedger, mv.MemberID.String(), evt, mv)
}

// NewTeamMovementPostedEvent creates the ledger event for a club-level movement.
func NewTeamMovementPostedEvent(mv *TeamMovement) OutboxDraft {
	return newDraft(AggregateLedger, mv.ID.String(), EventTeamMovementPosted, mv)
}

// NewMatchCreatedEvent announces a new upcoming match.
func NewMatchCreatedEvent(m *Match) OutboxDraft {
	return newDraft(AggregateMatch, m.ID.String(), EventMatchCreated, map[string]any{
		"match_id":  m.ID.String(),
		"match_day": m.MatchDay.Format(DateLayout),
	})
}

// NewMatchClosedEvent records the terminal transition with its settlement summary.
func NewMatchClosedEvent(m *Match, summary *SettlementSummary) OutboxDraft {
	return newDraft(AggregateMatch, m.ID.String(), EventMatchClosed, map[string]any{
		"match_id":   m.ID.String(),
		"match_day":  m.MatchDay.Format(DateLayout),
		"settlement": summary,
	})
}

// NewCaptainChosenEvent records a captain draw.
func NewCaptainChosenEvent(m *Match, team Team, captain uuid.UUID, pool int) OutboxDraft {
	return newDraft(AggregateMatch, m.ID.String(), EventCaptainChosen, map[string]any{
		"match_id":        m.ID.String(),
		"team":            team,
		"captain_id":      captain.String(),
		"candidate_count": pool,
	})
}
