package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

// SetAvailability records the availability declared by the member behind identity.
func (s *MatchService) SetAvailability(ctx context.Context, matchID uuid.UUID, identity string, availability domain.Availability) (*domain.Match, error) {
	if !availability.Valid() {
		return nil, domain.ErrValidation("status must be AVAILABLE or NOT_AVAILABLE")
	}

	match, err := s.mutate(ctx, matchID, func(tx repository.DBTX, m *domain.Match) error {
		member, err := findByIdentity(ctx, s.members, tx, identity)
		if err != nil {
			return err
		}
		if member.Blocked {
			return domain.ErrMemberBlocked(identity)
		}
		m.SetAvailability(member.ID, availability)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("availability set", "match_id", matchID, "member", identity, "status", availability)
	return match, nil
}

// AssignToTeam moves a confirmed member onto team.
func (s *MatchService) AssignToTeam(ctx context.Context, matchID, memberID uuid.UUID, team domain.Team) (*domain.Match, error) {
	return s.mutate(ctx, matchID, func(tx repository.DBTX, m *domain.Match) error {
		if _, err := s.requireMember(ctx, tx, memberID); err != nil {
			return err
		}
		return m.AssignToTeam(memberID, team)
	})
}

// RemoveFromTeam drops memberID from team; an absent member is a no-op.
func (s *MatchService) RemoveFromTeam(ctx context.Context, matchID, memberID uuid.UUID, team domain.Team) (*domain.Match, error) {
	return s.mutate(ctx, matchID, func(_ repository.DBTX, m *domain.Match) error {
		m.RemoveFromTeam(memberID, team)
		return nil
	})
}

// AddGuest appends a guest name to team.
func (s *MatchService) AddGuest(ctx context.Context, matchID uuid.UUID, team domain.Team, name string) (*domain.Match, error) {
	if err := domain.ValidateGuestName(name); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	return s.mutate(ctx, matchID, func(_ repository.DBTX, m *domain.Match) error {
		m.AddGuest(team, name)
		return nil
	})
}

// RemoveGuest drops the first guest called name from team.
func (s *MatchService) RemoveGuest(ctx context.Context, matchID uuid.UUID, team domain.Team, name string) (*domain.Match, error) {
	return s.mutate(ctx, matchID, func(_ repository.DBTX, m *domain.Match) error {
		m.RemoveGuest(team, name)
		return nil
	})
}
