package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

type memberRepo Store

func (r *memberRepo) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *memberRepo) FindByName(_ context.Context, _ repository.DBTX, name, surname string) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if strings.EqualFold(m.Name, name) && strings.EqualFold(m.Surname, surname) {
			return &m, nil
		}
	}
	return nil, nil
}

func (r *memberRepo) List(_ context.Context, _ repository.DBTX) ([]domain.Member, error) {
	return r.sorted(func(domain.Member) bool { return true }), nil
}

func (r *memberRepo) ListNonAdmin(_ context.Context, _ repository.DBTX) ([]domain.Member, error) {
	return r.sorted(func(m domain.Member) bool { return m.Role != domain.RoleAdmin }), nil
}

func (r *memberRepo) sorted(keep func(domain.Member) bool) []domain.Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Member
	for _, m := range r.members {
		if keep(m) {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b domain.Member) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Surname, b.Surname))
	})
	return out
}

func (r *memberRepo) Create(_ context.Context, _ repository.DBTX, m *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[m.ID]; ok {
		return fmt.Errorf("insert member: duplicate id %s", m.ID)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.clock.Now()
		m.UpdatedAt = m.CreatedAt
	}
	r.members[m.ID] = *m
	return nil
}

func (r *memberRepo) Update(_ context.Context, _ repository.DBTX, m *domain.Member) error {
	return r.mutate(m.ID, func(stored *domain.Member) {
		stored.Name = m.Name
		stored.Surname = m.Surname
		stored.Alias = m.Alias
		stored.Phone = m.Phone
		stored.Role = m.Role
		stored.CaptaincyCount = m.CaptaincyCount
	})
}

func (r *memberRepo) Delete(_ context.Context, _ repository.DBTX, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return false, nil
	}
	delete(r.members, id)
	return true, nil
}

func (r *memberRepo) IncrementCaptaincies(_ context.Context, _ repository.DBTX, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if m, ok := r.members[id]; ok {
			m.CaptaincyCount++
			m.UpdatedAt = r.clock.Now()
			r.members[id] = m
		}
	}
	return nil
}

func (r *memberRepo) AdvanceNonce(_ context.Context, _ repository.DBTX, id uuid.UUID, nonce int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok || m.Nonce >= nonce {
		return false, nil
	}
	m.Nonce = nonce
	r.members[id] = m
	return true, nil
}

func (r *memberRepo) SetInjured(_ context.Context, _ repository.DBTX, id uuid.UUID, injured bool) error {
	return r.mutate(id, func(m *domain.Member) { m.Injured = injured })
}

func (r *memberRepo) SetBlocked(_ context.Context, _ repository.DBTX, id uuid.UUID, blocked bool) error {
	return r.mutate(id, func(m *domain.Member) { m.Blocked = blocked })
}

func (r *memberRepo) UpdatePassword(_ context.Context, _ repository.DBTX, id uuid.UUID, hash string) error {
	return r.mutate(id, func(m *domain.Member) { m.PasswordHash = hash })
}

// mutate applies fn to a stored member; a missing id is a no-op like UPDATE ... WHERE.
func (r *memberRepo) mutate(id uuid.UUID, fn func(*domain.Member)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return nil
	}
	fn(&m)
	m.UpdatedAt = r.clock.Now()
	r.members[id] = m
	return nil
}
