package repository

import (
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericToFloat64_Zero(t *testing.T) {
	v, err := NumericToFloat64(Float64ToNumeric(0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestNumericToFloat64_Fine(t *testing.T) {
	v, err := NumericToFloat64(Float64ToNumeric(-1))
	require.NoError(t, err)
	assert.Equal(t, -1.0, v)
}

func TestNumericToFloat64_Cents(t *testing.T) {
	v, err := NumericToFloat64(Float64ToNumeric(12.34))
	require.NoError(t, err)
	assert.InDelta(t, 12.34, v, 1e-9)
}

func TestNumericToFloat64_NullReturnsError(t *testing.T) {
	_, err := NumericToFloat64(pgtype.Numeric{Valid: false})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "NULL")
}

func TestNumericToFloat64_NaNReturnsError(t *testing.T) {
	_, err := NumericToFloat64(pgtype.Numeric{NaN: true, Valid: true})
	assert.Error(t, err)
}

func TestNumericToFloat64_WithPositiveExponent(t *testing.T) {
	// 7 * 10^1 = 70
	n := pgtype.Numeric{Int: big.NewInt(7), Exp: 1, Valid: true}
	v, err := NumericToFloat64(n)
	require.NoError(t, err)
	assert.Equal(t, 70.0, v)
}

func TestFloat64ToNumeric_RoundsToCents(t *testing.T) {
	n := Float64ToNumeric(1.005)
	assert.Equal(t, int32(-2), n.Exp)
	v, err := NumericToFloat64(n)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 0.011)
}

func TestFloat64ToNumeric_Roundtrip(t *testing.T) {
	values := []float64{0, 1, -1, -70, 25.5, -0.75, 9_999_999_999.99}
	for _, v := range values {
		result, err := NumericToFloat64(Float64ToNumeric(v))
		require.NoError(t, err, "value: %v", v)
		assert.InDelta(t, v, result, 1e-6, "value: %v", v)
	}
}
