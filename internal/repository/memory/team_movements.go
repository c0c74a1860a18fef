package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

type teamMovementRepo Store

func (r *teamMovementRepo) Insert(_ context.Context, _ repository.DBTX, params domain.PostTeamMovementParams) (*domain.TeamMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mv := domain.TeamMovement{
		ID:          uuid.New(),
		Type:        params.Type,
		Amount:      params.Amount,
		Description: params.Description,
		CreatedOn:   r.clock.Now(),
	}
	r.teamMovements = append(r.teamMovements, mv)
	return &mv, nil
}

func (r *teamMovementRepo) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.TeamMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.index(id); i >= 0 {
		mv := r.teamMovements[i]
		return &mv, nil
	}
	return nil, nil
}

func (r *teamMovementRepo) List(_ context.Context, _ repository.DBTX) ([]domain.TeamMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.teamMovements), nil
}

func (r *teamMovementRepo) Update(_ context.Context, _ repository.DBTX, mv *domain.TeamMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.index(mv.ID); i >= 0 {
		r.teamMovements[i].Amount = mv.Amount
		r.teamMovements[i].Description = mv.Description
	}
	return nil
}

func (r *teamMovementRepo) Delete(_ context.Context, _ repository.DBTX, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return false, nil
	}
	r.teamMovements = slices.Delete(r.teamMovements, i, i+1)
	return true, nil
}

func (r *teamMovementRepo) Totals(_ context.Context, _ repository.DBTX) (domain.LedgerTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var totals domain.LedgerTotals
	for _, mv := range r.teamMovements {
		switch mv.Type {
		case domain.MovementExpense:
			totals.Expenses += mv.Amount
		case domain.MovementIncome:
			totals.Incomes += mv.Amount
		}
	}
	return totals, nil
}

func (r *teamMovementRepo) index(id uuid.UUID) int {
	return slices.IndexFunc(r.teamMovements, func(mv domain.TeamMovement) bool { return mv.ID == id })
}
