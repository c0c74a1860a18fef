package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
)

// SweepFailure records a match the sweep could not close.
type SweepFailure struct {
	MatchID  uuid.UUID `json:"match_id"`
	MatchDay string    `json:"match_day"`
	Code     string    `json:"code"`
	Error    string    `json:"error"`
}

// SweepReport aggregates one sweep run.
type SweepReport struct {
	AsOf   string         `json:"as_of"`
	Closed []CloseResult  `json:"closed"`
	Failed []SweepFailure `json:"failed"`
}

// SweepOverdue closes every open match dated before asOf. Each match is closed
// in its own transaction; a failure is recorded and the sweep moves on. The
// returned error is non-nil only when the overdue list cannot be read or ctx
// is cancelled, in which case the partial report is still returned.
func (s *MatchService) SweepOverdue(ctx context.Context, asOf time.Time) (*SweepReport, error) {
	asOf = domain.TruncateDay(asOf)
	report := &SweepReport{
		AsOf:   asOf.Format(domain.DateLayout),
		Closed: []CloseResult{},
		Failed: []SweepFailure{},
	}

	overdue, err := s.matches.ListOverdue(ctx, s.db, asOf)
	if err != nil {
		return report, domain.ErrInternal("list overdue matches", err)
	}

	for _, m := range overdue {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := s.Close(ctx, m.ID)
		if err != nil {
			failure := SweepFailure{
				MatchID:  m.ID,
				MatchDay: m.MatchDay.Format(domain.DateLayout),
				Code:     errorCode(err),
				Error:    err.Error(),
			}
			report.Failed = append(report.Failed, failure)
			s.logger.Error("sweep: close match failed", "match_id", m.ID, "match_day", failure.MatchDay, "error", err)
			continue
		}
		report.Closed = append(report.Closed, *result)
	}

	s.logger.Info("sweep finished", "as_of", report.AsOf, "overdue", len(overdue),
		"closed", len(report.Closed), "failed", len(report.Failed))
	return report, nil
}

// SweepToday sweeps every match dated before today.
func (s *MatchService) SweepToday(ctx context.Context) (*SweepReport, error) {
	return s.SweepOverdue(ctx, s.Today())
}
