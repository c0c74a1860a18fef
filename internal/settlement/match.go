package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/ledger"
	"github.com/matchday/platform/internal/repository"
)

// MatchSettlement applies the side effects of closing a match: fines for
// absentees and captaincy credit for the two captains.
type MatchSettlement struct {
	engine  *ledger.Engine
	members repository.MemberRepository
}

// NewMatchSettlement creates a match settlement handler.
func NewMatchSettlement(engine *ledger.Engine, members repository.MemberRepository) *MatchSettlement {
	return &MatchSettlement{engine: engine, members: members}
}

// Outcome classifies an absentee at close time.
type Outcome int

const (
	OutcomeSkip Outcome = iota
	OutcomeExempt
	OutcomeFine
)

// ClassifyAbsentee decides what happens to a member who did not confirm.
// Unknown members are skipped and injured members are exempt.
func ClassifyAbsentee(member *domain.Member) Outcome {
	switch {
	case member == nil:
		return OutcomeSkip
	case member.Injured:
		return OutcomeExempt
	default:
		return OutcomeFine
	}
}

// Settle runs within the caller's transaction.
//
// Step 1: one fine per non-injured absentee (not available or unconfirmed)
// Step 2: +1 captaincy for each set, resolvable captain
func (s *MatchSettlement) Settle(ctx context.Context, db repository.DBTX, match *domain.Match) (*domain.SettlementSummary, error) {
	summary := &domain.SettlementSummary{
		Fined:               []uuid.UUID{},
		Exempted:            []uuid.UUID{},
		Skipped:             []uuid.UUID{},
		CaptainsIncremented: []uuid.UUID{},
	}

	// Step 1: fines
	for _, id := range match.Absentees() {
		member, err := s.members.FindByID(ctx, db, id)
		if err != nil {
			return nil, fmt.Errorf("resolve absentee %s: %w", id, err)
		}

		switch ClassifyAbsentee(member) {
		case OutcomeSkip:
			summary.Skipped = append(summary.Skipped, id)
		case OutcomeExempt:
			summary.Exempted = append(summary.Exempted, id)
		case OutcomeFine:
			if _, err := s.engine.AssessFine(ctx, db, id, match.MatchDay); err != nil {
				return nil, fmt.Errorf("fine %s: %w", id, err)
			}
			summary.Fined = append(summary.Fined, id)
		}
	}

	// Step 2: captaincy credit
	for _, id := range match.Captains() {
		member, err := s.members.FindByID(ctx, db, id)
		if err != nil {
			return nil, fmt.Errorf("resolve captain %s: %w", id, err)
		}
		if member != nil {
			summary.CaptainsIncremented = append(summary.CaptainsIncremented, id)
		}
	}
	if err := s.members.IncrementCaptaincies(ctx, db, summary.CaptainsIncremented); err != nil {
		return nil, fmt.Errorf("credit captains: %w", err)
	}

	return summary, nil
}
