package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

type matchRepo Store

func (r *matchRepo) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, nil
	}
	c := cloneMatch(m)
	return &c, nil
}

// LockForUpdate is FindByID; WithinTx already serializes writers.
func (r *matchRepo) LockForUpdate(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.Match, error) {
	return r.FindByID(ctx, db, id)
}

func (r *matchRepo) FindUpcoming(_ context.Context, _ repository.DBTX, day time.Time) (*domain.Match, error) {
	upcoming := r.filter(func(m domain.Match) bool { return !m.MatchDay.Before(day) })
	if len(upcoming) == 0 {
		return nil, nil
	}
	return &upcoming[0], nil
}

func (r *matchRepo) ListClosed(_ context.Context, _ repository.DBTX) ([]domain.Match, error) {
	closed := r.filter(func(m domain.Match) bool { return m.Closed })
	slices.Reverse(closed)
	return closed, nil
}

func (r *matchRepo) ListOverdue(_ context.Context, _ repository.DBTX, day time.Time) ([]domain.Match, error) {
	return r.filter(func(m domain.Match) bool { return !m.Closed && m.MatchDay.Before(day) }), nil
}

// filter returns matching matches ordered by match day ascending.
func (r *matchRepo) filter(keep func(domain.Match) bool) []domain.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Match
	for _, m := range r.matches {
		if keep(m) {
			out = append(out, cloneMatch(m))
		}
	}
	slices.SortFunc(out, func(a, b domain.Match) int { return a.MatchDay.Compare(b.MatchDay) })
	return out
}

func (r *matchRepo) Create(_ context.Context, _ repository.DBTX, m *domain.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.matches {
		if existing.MatchDay.Equal(m.MatchDay) {
			return fmt.Errorf("insert match %s: %w", m.MatchDay.Format(domain.DateLayout), repository.ErrDuplicateMatchDay)
		}
	}
	now := r.clock.Now()
	m.CreatedAt, m.UpdatedAt = now, now
	r.matches[m.ID] = cloneMatch(*m)
	return nil
}

func (r *matchRepo) Update(_ context.Context, _ repository.DBTX, m *domain.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[m.ID]; !ok {
		return fmt.Errorf("update match %s: no rows affected", m.ID)
	}
	m.UpdatedAt = r.clock.Now()
	r.matches[m.ID] = cloneMatch(*m)
	return nil
}

func (r *matchRepo) Delete(_ context.Context, _ repository.DBTX, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[id]; !ok {
		return false, nil
	}
	delete(r.matches, id)
	return true, nil
}
