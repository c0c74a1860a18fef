package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type movementRepo Store

func (r *movementRepo) Insert(_ context.Context, _ repository.DBTX, params domain.PostMovementParams) (*domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mv := domain.Movement{
		ID:          uuid.New(),
		MemberID:    params.MemberID,
		Type:        params.Type,
		Amount:      params.Amount,
		Description: params.Description,
		CreatedOn:   r.clock.Now(),
	}
	r.movements = append(r.movements, mv)
	return &mv, nil
}

func (r *movementRepo) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.index(id); i >= 0 {
		mv := r.movements[i]
		return &mv, nil
	}
	return nil, nil
}

func (r *movementRepo) List(_ context.Context, _ repository.DBTX, filter domain.MovementFilter) (*domain.MovementPage, error) {
	size := filter.Size
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	page := max(filter.Page, 0)
	needle := strings.ToLower(filter.Description)

	r.mu.Lock()
	var matched []domain.Movement
	for _, mv := range r.movements {
		if filter.MemberID != nil && mv.MemberID != *filter.MemberID {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(mv.Description), needle) {
			continue
		}
		matched = append(matched, mv)
	}
	r.mu.Unlock()

	// Insertion order is creation order; newest first.
	slices.Reverse(matched)

	out := []domain.Movement{}
	if start := page * size; start < len(matched) {
		out = append(out, matched[start:min(start+size, len(matched))]...)
	}
	return &domain.MovementPage{Movements: out, Page: page, Size: size, Total: int64(len(matched))}, nil
}

func (r *movementRepo) Update(_ context.Context, _ repository.DBTX, mv *domain.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.index(mv.ID); i >= 0 {
		r.movements[i].Type = mv.Type
		r.movements[i].Amount = mv.Amount
		r.movements[i].Description = mv.Description
	}
	return nil
}

func (r *movementRepo) Delete(_ context.Context, _ repository.DBTX, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return false, nil
	}
	r.movements = slices.Delete(r.movements, i, i+1)
	return true, nil
}

func (r *movementRepo) SumByMember(_ context.Context, _ repository.DBTX, memberID uuid.UUID) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, mv := range r.movements {
		if mv.MemberID == memberID {
			sum += mv.Amount
		}
	}
	return sum, nil
}

func (r *movementRepo) Totals(_ context.Context, _ repository.DBTX) (domain.LedgerTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var totals domain.LedgerTotals
	for _, mv := range r.movements {
		switch mv.Type {
		case domain.MovementExpense:
			totals.Expenses += mv.Amount
		case domain.MovementIncome:
			totals.Incomes += mv.Amount
		}
	}
	return totals, nil
}

func (r *movementRepo) index(id uuid.UUID) int {
	return slices.IndexFunc(r.movements, func(mv domain.Movement) bool { return mv.ID == id })
}
