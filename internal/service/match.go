package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/guard"
	"github.com/matchday/platform/internal/repository"
	"github.com/matchday/platform/internal/settlement"
)

// MatchService owns the match lifecycle: creation, roster changes, captain
// draws, closing and the overdue sweep. Every mutation of a match runs under
// the match's keyed lock and inside one transaction.
type MatchService struct {
	db         repository.DBTX
	tx         repository.Transactor
	matches    repository.MatchRepository
	members    repository.MemberRepository
	outbox     repository.OutboxRepository
	settlement *settlement.MatchSettlement
	locks      *guard.KeyedMutex
	clock      clockwork.Clock
	picker     Picker
	logger     *slog.Logger
}

// MatchServiceDeps holds the collaborators of a MatchService.
type MatchServiceDeps struct {
	DB         repository.DBTX
	Tx         repository.Transactor
	Matches    repository.MatchRepository
	Members    repository.MemberRepository
	Outbox     repository.OutboxRepository
	Settlement *settlement.MatchSettlement
	Locks      *guard.KeyedMutex
	Clock      clockwork.Clock
	Picker     Picker
	Logger     *slog.Logger
}

// NewMatchService creates a new MatchService. A nil Picker or Locks gets the default.
func NewMatchService(deps MatchServiceDeps) *MatchService {
	if deps.Picker == nil {
		deps.Picker = NewRandomPicker()
	}
	if deps.Locks == nil {
		deps.Locks = guard.NewKeyedMutex()
	}
	return &MatchService{
		db:         deps.DB,
		tx:         deps.Tx,
		matches:    deps.Matches,
		members:    deps.Members,
		outbox:     deps.Outbox,
		settlement: deps.Settlement,
		locks:      deps.Locks,
		clock:      deps.Clock,
		picker:     deps.Picker,
		logger:     deps.Logger,
	}
}

// Today is the current calendar day on the service clock.
func (s *MatchService) Today() time.Time {
	return domain.TruncateDay(s.clock.Now())
}

// Create opens a match for day with every non-admin member unconfirmed.
// Fails with MATCH_ALREADY_EXISTS while an upcoming match exists or when day
// already has a match.
func (s *MatchService) Create(ctx context.Context, day time.Time) (*domain.Match, error) {
	var match *domain.Match
	err := s.tx.WithinTx(ctx, func(tx repository.DBTX) error {
		upcoming, err := s.matches.FindUpcoming(ctx, tx, s.Today())
		if err != nil {
			return domain.ErrInternal("find upcoming match", err)
		}
		if upcoming != nil {
			return domain.ErrMatchAlreadyExists(day.Format(domain.DateLayout))
		}

		members, err := s.members.ListNonAdmin(ctx, tx)
		if err != nil {
			return domain.ErrInternal("list members", err)
		}
		ids := make([]uuid.UUID, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID)
		}

		match = domain.NewMatch(day, ids)
		if err := s.matches.Create(ctx, tx, match); err != nil {
			if errors.Is(err, repository.ErrDuplicateMatchDay) {
				return domain.ErrMatchAlreadyExists(day.Format(domain.DateLayout))
			}
			return domain.ErrInternal("create match", err)
		}
		if err := s.outbox.Insert(ctx, tx, domain.NewMatchCreatedEvent(match)); err != nil {
			return domain.ErrInternal("insert outbox event", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("match created", "match_id", match.ID, "match_day", match.MatchDay.Format(domain.DateLayout),
		"unconfirmed", len(match.Unconfirmed))
	return match, nil
}

// Get returns a match by id.
func (s *MatchService) Get(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	match, err := s.matches.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, domain.ErrInternal("find match", err)
	}
	if match == nil {
		return nil, domain.ErrMatchNotFound(id.String())
	}
	return match, nil
}

// GetNext returns the match scheduled today or later.
func (s *MatchService) GetNext(ctx context.Context) (*domain.Match, error) {
	match, err := s.matches.FindUpcoming(ctx, s.db, s.Today())
	if err != nil {
		return nil, domain.ErrInternal("find next match", err)
	}
	if match == nil {
		return nil, domain.ErrNextMatchNotFound()
	}
	return match, nil
}

// ListClosed returns closed matches, newest first.
func (s *MatchService) ListClosed(ctx context.Context) ([]domain.Match, error) {
	matches, err := s.matches.ListClosed(ctx, s.db)
	if err != nil {
		return nil, domain.ErrInternal("list closed matches", err)
	}
	return matches, nil
}

// Delete removes a match regardless of its state.
func (s *MatchService) Delete(ctx context.Context, id uuid.UUID) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	deleted, err := s.matches.Delete(ctx, s.db, id)
	if err != nil {
		return domain.ErrInternal("delete match", err)
	}
	if !deleted {
		return domain.ErrMatchNotFound(id.String())
	}
	s.logger.Info("match deleted", "match_id", id)
	return nil
}

// mutate loads an open match under lock, applies fn and persists the result.
func (s *MatchService) mutate(ctx context.Context, id uuid.UUID, fn func(tx repository.DBTX, m *domain.Match) error) (*domain.Match, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	var match *domain.Match
	err := s.tx.WithinTx(ctx, func(tx repository.DBTX) error {
		m, err := s.lockOpen(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(tx, m); err != nil {
			return err
		}
		if err := s.matches.Update(ctx, tx, m); err != nil {
			return domain.ErrInternal("update match", err)
		}
		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// lockOpen row-locks the match and rejects missing or closed matches.
func (s *MatchService) lockOpen(ctx context.Context, tx repository.DBTX, id uuid.UUID) (*domain.Match, error) {
	m, err := s.matches.LockForUpdate(ctx, tx, id)
	if err != nil {
		return nil, domain.ErrInternal("lock match", err)
	}
	if m == nil {
		return nil, domain.ErrMatchNotFound(id.String())
	}
	if m.Closed {
		return nil, domain.ErrMatchClosed(id.String())
	}
	return m, nil
}

func (s *MatchService) requireMember(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.Member, error) {
	member, err := s.members.FindByID(ctx, db, id)
	if err != nil {
		return nil, domain.ErrInternal("find member", err)
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound(id.String())
	}
	return member, nil
}
