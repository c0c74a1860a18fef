package service

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

// Picker chooses an index in [0, n). n is always > 0.
type Picker interface {
	IntN(n int) int
}

type randomPicker struct{}

// NewRandomPicker returns a Picker backed by math/rand/v2.
func NewRandomPicker() Picker { return randomPicker{} }

func (randomPicker) IntN(n int) int { return rand.IntN(n) }

// CaptainCandidates returns the members with the fewest captaincies, in input order.
func CaptainCandidates(players []domain.Member) []domain.Member {
	if len(players) == 0 {
		return nil
	}
	lowest := players[0].CaptaincyCount
	for _, p := range players[1:] {
		lowest = min(lowest, p.CaptaincyCount)
	}

	var out []domain.Member
	for _, p := range players {
		if p.CaptaincyCount == lowest {
			out = append(out, p)
		}
	}
	return out
}

// maxCaptainDraws bounds how often a draw is retried when the team changes
// between the draw and the write.
const maxCaptainDraws = 3

var errCandidatesChanged = errors.New("captain candidates changed")

// SelectRandomCaptain draws the captain of team among its players with the
// fewest captaincies. An empty or fully unresolvable team leaves the match unchanged.
// The Picker runs outside the match lock. The candidates are re-read under the
// lock and the draw is retried if they changed in between; the last attempt
// draws locally under the lock.
func (s *MatchService) SelectRandomCaptain(ctx context.Context, matchID uuid.UUID, team domain.Team) (*domain.Match, error) {
	for attempt := 1; ; attempt++ {
		m, err := s.matches.FindByID(ctx, s.db, matchID)
		if err != nil {
			return nil, domain.ErrInternal("find match", err)
		}
		if m == nil {
			return nil, domain.ErrMatchNotFound(matchID.String())
		}
		if m.Closed {
			return nil, domain.ErrMatchClosed(matchID.String())
		}
		drawn, err := s.teamCandidates(ctx, s.db, m, team)
		if err != nil {
			return nil, err
		}
		idx := 0
		if len(drawn) > 0 {
			idx = s.picker.IntN(len(drawn))
		}

		match, err := s.setCaptain(ctx, matchID, team, drawn, idx, attempt == maxCaptainDraws)
		if errors.Is(err, errCandidatesChanged) {
			s.logger.Debug("captain candidates changed, drawing again", "match_id", matchID, "team", team, "attempt", attempt)
			continue
		}
		return match, err
	}
}

func (s *MatchService) setCaptain(
	ctx context.Context, matchID uuid.UUID, team domain.Team, drawn []domain.Member, idx int, last bool,
) (*domain.Match, error) {
	var chosen *domain.Member
	var pool int

	match, err := s.mutate(ctx, matchID, func(tx repository.DBTX, m *domain.Match) error {
		candidates, err := s.teamCandidates(ctx, tx, m, team)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			return nil
		}
		if !sameCandidates(drawn, candidates) {
			if !last {
				return errCandidatesChanged
			}
			idx = rand.IntN(len(candidates))
		}

		pick := candidates[idx]
		if err := m.SetCaptain(team, pick.ID); err != nil {
			return err
		}
		if err := s.outbox.Insert(ctx, tx, domain.NewCaptainChosenEvent(m, team, pick.ID, len(candidates))); err != nil {
			return domain.ErrInternal("insert outbox event", err)
		}
		chosen, pool = &pick, len(candidates)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if chosen != nil {
		s.logger.Info("captain chosen", "match_id", matchID, "team", team,
			"captain", chosen.Identity(), "captaincies", chosen.CaptaincyCount, "candidates", pool)
	}
	return match, nil
}

// teamCandidates resolves the players of team and keeps those with the fewest captaincies.
func (s *MatchService) teamCandidates(ctx context.Context, db repository.DBTX, m *domain.Match, team domain.Team) ([]domain.Member, error) {
	var players []domain.Member
	for _, id := range m.Players(team) {
		member, err := s.members.FindByID(ctx, db, id)
		if err != nil {
			return nil, domain.ErrInternal("find member", err)
		}
		if member != nil {
			players = append(players, *member)
		}
	}
	return CaptainCandidates(players), nil
}

func sameCandidates(a, b []domain.Member) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
