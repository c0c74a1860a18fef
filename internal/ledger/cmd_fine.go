package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

// AssessFine appends the fixed missed-match fine for memberID.
// The caller has already resolved the member; no lookup happens here.
func (e *Engine) AssessFine(ctx context.Context, db repository.DBTX, memberID uuid.UUID, matchDay time.Time) (*domain.Movement, error) {
	mv, err := e.PostMovement(ctx, db, domain.PostMovementParams{
		MemberID:    memberID,
		Type:        domain.MovementExpense,
		Amount:      domain.FineAmount,
		Description: domain.FineDescription(matchDay),
	}, true)
	if err != nil {
		return nil, fmt.Errorf("assess fine: %w", err)
	}
	return mv, nil
}
