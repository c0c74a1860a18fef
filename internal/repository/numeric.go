package repository

import (
	"fmt"
	"math"
	"math/big"

	"github.com/jackc/pgx/v5/pgtype"
)

// moneyScale is the number of fractional digits stored in numeric(12,2) columns.
const moneyScale = 2

// NumericToFloat64 converts a pgtype.Numeric (from PostgreSQL numeric(12,2)) to float64.
// Returns an error if the value is NULL, NaN or infinite.
func NumericToFloat64(n pgtype.Numeric) (float64, error) {
	if !n.Valid {
		return 0, fmt.Errorf("numeric value is NULL")
	}
	if n.NaN {
		return 0, fmt.Errorf("numeric value is NaN")
	}
	if n.InfinityModifier != pgtype.Finite {
		return 0, fmt.Errorf("numeric value is infinite")
	}

	// pgtype.Numeric stores value as Int * 10^Exp
	f := new(big.Float).SetInt(n.Int)
	if n.Exp != 0 {
		scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs(n.Exp))), nil))
		if n.Exp > 0 {
			f.Mul(f, scale)
		} else {
			f.Quo(f, scale)
		}
	}

	v, _ := f.Float64()
	return v, nil
}

// Float64ToNumeric converts a float64 to pgtype.Numeric for writing to PostgreSQL
// numeric(12,2), rounding to cents.
func Float64ToNumeric(v float64) pgtype.Numeric {
	cents := int64(math.Round(v * math.Pow10(moneyScale)))
	return pgtype.Numeric{
		Int:              big.NewInt(cents),
		Exp:              -moneyScale,
		NaN:              false,
		InfinityModifier: pgtype.Finite,
		Valid:            true,
	}
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
