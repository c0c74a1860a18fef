package ledger

import (
	"context"
	"fmt"

	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

// AnnualFeeDescription is the ledger text of the yearly membership charge.
const AnnualFeeDescription = "Annual team fee"

// ChargeAnnualFee posts an EXPENSE of amount to every non-admin member.
func (e *Engine) ChargeAnnualFee(ctx context.Context, db repository.DBTX, amount float64) ([]domain.Movement, error) {
	if amount == 0 {
		return nil, domain.ErrValidation("annual fee must not be zero")
	}

	members, err := e.members.ListNonAdmin(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	charged := make([]domain.Movement, 0, len(members))
	for _, m := range members {
		mv, err := e.PostMovement(ctx, db, domain.PostMovementParams{
			MemberID:    m.ID,
			Type:        domain.MovementExpense,
			Amount:      amount,
			Description: AnnualFeeDescription,
		}, false)
		if err != nil {
			return nil, fmt.Errorf("annual fee for %s: %w", m.Identity(), err)
		}
		charged = append(charged, *mv)
	}
	return charged, nil
}
