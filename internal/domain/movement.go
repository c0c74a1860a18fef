package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// MovementType classifies a ledger entry.
type MovementType string

const (
	MovementExpense MovementType = "EXPENSE"
	MovementIncome  MovementType = "INCOME"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	return t == MovementExpense || t == MovementIncome
}

// FineAmount is the fixed amount charged to a non-injured absentee at match close.
const FineAmount = -1.0

// Movement represents a movements row (append-only ledger entry).
type Movement struct {
	ID          uuid.UUID    `json:"id"`
	MemberID    uuid.UUID    `json:"member_id"`
	Type        MovementType `json:"type"`
	Amount      float64      `json:"amount"`
	Description string       `json:"description"`
	CreatedOn   time.Time    `json:"created_on"`
}

// PostMovementParams is the input to the ledger's single write primitive.
type PostMovementParams struct {
	MemberID    uuid.UUID
	Type        MovementType
	Amount      float64
	Description string
}

// MovementFilter narrows a movement listing. Zero values mean "no filter".
type MovementFilter struct {
	MemberID    *uuid.UUID
	Description string
	Page        int
	Size        int
}

// MovementPage is one page of a filtered movement listing.
type MovementPage struct {
	Movements []Movement `json:"movements"`
	Page      int        `json:"page"`
	Size      int        `json:"size"`
	Total     int64      `json:"total"`
}

// LedgerTotals aggregates every movement by type.
type LedgerTotals struct {
	Expenses float64 `json:"expenses"`
	Incomes  float64 `json:"incomes"`
}

// NormalizeAmount forces the sign of amount to match t: expenses are never
// positive and incomes never negative.
func NormalizeAmount(t MovementType, amount float64) float64 {
	if t == MovementExpense {
		return -math.Abs(amount)
	}
	return math.Abs(amount)
}

// FineDescription is the ledger text for a missed-match fine.
func FineDescription(matchDay time.Time) string {
	return fmt.Sprintf("Fine for missing the match of %s", matchDay.Format("02/01/06"))
}

// TeamMovement is a club-level ledger entry not owned by any member.
type TeamMovement struct {
	ID          uuid.UUID    `json:"id"`
	Type        MovementType `json:"type"`
	Amount      float64      `json:"amount"`
	Description string       `json:"description"`
	CreatedOn   time.Time    `json:"created_on"`
}

// PostTeamMovementParams is the input for appending a team movement.
type PostTeamMovementParams struct {
	Type        MovementType
	Amount      float64
	Description string
}
