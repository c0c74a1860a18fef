package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

// CloseResult is the outcome of closing a match.
type CloseResult struct {
	Match      *domain.Match             `json:"match"`
	Settlement *domain.SettlementSummary `json:"settlement"`
}

// Close moves an open match to CLOSED and, in the same transaction, fines the
// non-injured absentees and credits both captains. A closed match is rejected
// with MATCH_CLOSED, so a match is never settled twice.
func (s *MatchService) Close(ctx context.Context, matchID uuid.UUID) (*CloseResult, error) {
	unlock := s.locks.Lock(matchID)
	defer unlock()

	var result *CloseResult
	err := s.tx.WithinTx(ctx, func(tx repository.DBTX) error {
		m, err := s.lockOpen(ctx, tx, matchID)
		if err != nil {
			return err
		}

		m.Closed = true
		if err := s.matches.Update(ctx, tx, m); err != nil {
			return domain.ErrInternal("close match", err)
		}

		summary, err := s.settlement.Settle(ctx, tx, m)
		if err != nil {
			return domain.ErrInternal("settle match", err)
		}

		if err := s.outbox.Insert(ctx, tx, domain.NewMatchClosedEvent(m, summary)); err != nil {
			return domain.ErrInternal("insert outbox event", err)
		}

		result = &CloseResult{Match: m, Settlement: summary}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("match closed",
		"match_id", matchID,
		"match_day", result.Match.MatchDay.Format(domain.DateLayout),
		"fined", len(result.Settlement.Fined),
		"exempted", len(result.Settlement.Exempted),
		"skipped", len(result.Settlement.Skipped),
		"captains", len(result.Settlement.CaptainsIncremented),
	)
	return result, nil
}
