package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

// ExecuteTeamPost appends a club-level movement.
// Pattern: Validate → Insert → Outbox
func (e *Engine) ExecuteTeamPost(ctx context.Context, db repository.DBTX, params domain.PostTeamMovementParams) (*domain.TeamMovement, error) {
	if err := domain.ValidateMovement(params.Type, params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	params.Amount = domain.NormalizeAmount(params.Type, params.Amount)

	mv, err := e.team.Insert(ctx, db, params)
	if err != nil {
		return nil, fmt.Errorf("insert team movement: %w", err)
	}
	if err := e.outbox.Insert(ctx, db, domain.NewTeamMovementPostedEvent(mv)); err != nil {
		return nil, fmt.Errorf("insert outbox event: %w", err)
	}
	return mv, nil
}

// ExecuteTeamAmend rewrites the amount and description of a team movement.
func (e *Engine) ExecuteTeamAmend(ctx context.Context, db repository.DBTX, id uuid.UUID, amount float64, description string) (*domain.TeamMovement, error) {
	if amount == 0 {
		return nil, domain.ErrValidation("amount must not be zero")
	}

	mv, err := e.team.FindByID(ctx, db, id)
	if err != nil {
		return nil, fmt.Errorf("find team movement: %w", err)
	}
	if mv == nil {
		return nil, domain.ErrMovementNotFound(id.String())
	}

	mv.Amount = domain.NormalizeAmount(mv.Type, amount)
	mv.Description = description
	if err := e.team.Update(ctx, db, mv); err != nil {
		return nil, fmt.Errorf("amend team movement: %w", err)
	}
	return mv, nil
}

// ExecuteTeamRemove deletes a team movement.
func (e *Engine) ExecuteTeamRemove(ctx context.Context, db repository.DBTX, id uuid.UUID) error {
	deleted, err := e.team.Delete(ctx, db, id)
	if err != nil {
		return fmt.Errorf("remove team movement: %w", err)
	}
	if !deleted {
		return domain.ErrMovementNotFound(id.String())
	}
	return nil
}

// ClubBalance reports club expenses (team expenses only) against club incomes
// (member incomes plus team incomes).
func (e *Engine) ClubBalance(ctx context.Context, db repository.DBTX) (domain.LedgerTotals, error) {
	memberTotals, err := e.movements.Totals(ctx, db)
	if err != nil {
		return domain.LedgerTotals{}, fmt.Errorf("member totals: %w", err)
	}
	teamTotals, err := e.team.Totals(ctx, db)
	if err != nil {
		return domain.LedgerTotals{}, fmt.Errorf("team totals: %w", err)
	}
	return domain.LedgerTotals{
		Expenses: teamTotals.Expenses,
		Incomes:  memberTotals.Incomes + teamTotals.Incomes,
	}, nil
}
