package ledger

import (
	"context"
	"fmt"

	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

// ExecutePost appends a user-entered movement for an existing member.
// Pattern: Validate → RequireMember → PostMovement
func (e *Engine) ExecutePost(ctx context.Context, db repository.DBTX, params domain.PostMovementParams) (*domain.Movement, error) {
	if err := domain.ValidateMovement(params.Type, params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	if _, err := e.RequireMember(ctx, db, params.MemberID); err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}

	mv, err := e.PostMovement(ctx, db, params, false)
	if err != nil {
		return nil, fmt.Errorf("post movement: %w", err)
	}
	return mv, nil
}
