package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

// Engine provides the foundational ledger operations:
//   1. RequireMember: the owning member must exist
//   2. PostMovement: append-only insert + outbox event
//
// Every command in this package runs inside the caller's transaction.
type Engine struct {
	members   repository.MemberRepository
	movements repository.MovementRepository
	team      repository.TeamMovementRepository
	outbox    repository.OutboxRepository
}

// NewEngine creates a ledger engine with the given repositories.
func NewEngine(
	members repository.MemberRepository,
	movements repository.MovementRepository,
	team repository.TeamMovementRepository,
	outbox repository.OutboxRepository,
) *Engine {
	return &Engine{
		members:   members,
		movements: movements,
		team:      team,
		outbox:    outbox,
	}
}

// RequireMember returns the member or MemberNotFound.
func (e *Engine) RequireMember(ctx context.Context, db repository.DBTX, memberID uuid.UUID) (*domain.Member, error) {
	member, err := e.members.FindByID(ctx, db, memberID)
	if err != nil {
		return nil, fmt.Errorf("find member: %w", err)
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound(memberID.String())
	}
	return member, nil
}

// PostMovement normalises the amount sign and appends a movement.
// This is the core write primitive; every append command delegates to it.
//
// Steps:
//  1. Insert the movement with its sign forced to match its type
//  2. Insert outbox event
func (e *Engine) PostMovement(ctx context.Context, db repository.DBTX, params domain.PostMovementParams, fine bool) (*domain.Movement, error) {
	params.Amount = domain.NormalizeAmount(params.Type, params.Amount)

	// Step 1: append-only insert
	mv, err := e.movements.Insert(ctx, db, params)
	if err != nil {
		return nil, fmt.Errorf("insert movement: %w", err)
	}

	// Step 2: outbox event (same transaction for atomicity)
	if err := e.outbox.Insert(ctx, db, domain.NewMovementPostedEvent(mv, fine)); err != nil {
		return nil, fmt.Errorf("insert outbox event: %w", err)
	}

	return mv, nil
}
