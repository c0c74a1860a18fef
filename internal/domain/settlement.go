package domain

import "github.com/google/uuid"

// SettlementSummary captures the side effects applied when a match closes.
type SettlementSummary struct {
	Fined               []uuid.UUID `json:"fined"`
	Exempted            []uuid.UUID `json:"exempted"`
	Skipped             []uuid.UUID `json:"skipped"`
	CaptainsIncremented []uuid.UUID `json:"captains_incremented"`
}
