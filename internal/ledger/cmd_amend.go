package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

// ExecuteAmend rewrites the amount and description of a movement. The type is
// kept and the amount sign is re-normalised against it.
func (e *Engine) ExecuteAmend(ctx context.Context, db repository.DBTX, id uuid.UUID, amount float64, description string) (*domain.Movement, error) {
	if amount == 0 {
		return nil, domain.ErrValidation("amount must not be zero")
	}

	mv, err := e.movements.FindByID(ctx, db, id)
	if err != nil {
		return nil, fmt.Errorf("find movement: %w", err)
	}
	if mv == nil {
		return nil, domain.ErrMovementNotFound(id.String())
	}

	mv.Amount = domain.NormalizeAmount(mv.Type, amount)
	mv.Description = description
	if err := e.movements.Update(ctx, db, mv); err != nil {
		return nil, fmt.Errorf("amend movement: %w", err)
	}
	return mv, nil
}

// ExecuteRemove deletes a movement.
func (e *Engine) ExecuteRemove(ctx context.Context, db repository.DBTX, id uuid.UUID) error {
	deleted, err := e.movements.Delete(ctx, db, id)
	if err != nil {
		return fmt.Errorf("remove movement: %w", err)
	}
	if !deleted {
		return domain.ErrMovementNotFound(id.String())
	}
	return nil
}
