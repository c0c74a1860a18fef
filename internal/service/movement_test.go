package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementService_CRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := f.member(t, "ana", 0, false)

	mv, err := f.movements.Create(ctx, MovementInput{MemberID: ana.ID, Type: domain.MovementExpense, Amount: 12, Description: "Balones"})
	require.NoError(t, err)
	assert.Equal(t, -12.0, mv.Amount)
	assert.Equal(t, "ana fc", mv.MemberName)

	mv, err = f.movements.Update(ctx, mv.ID, AmendInput{Amount: 15, Description: "Balones nuevos"})
	require.NoError(t, err)
	assert.Equal(t, -15.0, mv.Amount)
	assert.Equal(t, domain.MovementExpense, mv.Type)

	got, err := f.movements.Get(ctx, mv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Balones nuevos", got.Description)

	require.NoError(t, f.movements.Delete(ctx, mv.ID))
	_, err = f.movements.Get(ctx, mv.ID)
	assert.True(t, domain.HasCode(err, domain.CodeMovementNotFound))
	assert.True(t, domain.HasCode(f.movements.Delete(ctx, mv.ID), domain.CodeMovementNotFound))
}

func TestMovementService_CreateErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := f.member(t, "ana", 0, false)

	_, err := f.movements.Create(ctx, MovementInput{MemberID: uuid.New(), Type: domain.MovementIncome, Amount: 1})
	assert.True(t, domain.HasCode(err, domain.CodeMemberNotFound))

	_, err = f.movements.Create(ctx, MovementInput{MemberID: ana.ID, Type: "GIFT", Amount: 1})
	assert.True(t, domain.HasCode(err, domain.CodeValidation))
}

func TestMovementService_ListResolvesNames(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := f.member(t, "ana", 0, false)
	gone := f.member(t, "gone", 0, false)

	for _, id := range []uuid.UUID{ana.ID, gone.ID} {
		_, err := f.movements.Create(ctx, MovementInput{MemberID: id, Type: domain.MovementIncome, Amount: 3, Description: "Cuota marzo"})
		require.NoError(t, err)
	}
	require.NoError(t, f.members.Delete(ctx, gone.ID))

	page, err := f.movements.List(ctx, domain.MovementFilter{Description: "CUOTA"})
	require.NoError(t, err)
	require.Len(t, page.Movements, 2)

	names := []string{page.Movements[0].MemberName, page.Movements[1].MemberName}
	assert.ElementsMatch(t, []string{"ana fc", NotFoundName}, names)
}

func TestMovementService_AnnualFeeAndTotals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := f.member(t, "ana", 0, false)
	bea := f.member(t, "bea", 0, false)

	charged, err := f.movements.ChargeAnnualFee(ctx)
	require.NoError(t, err)
	assert.Len(t, charged, 2)
	assert.Equal(t, -70.0, f.balance(t, ana.ID))
	assert.Equal(t, -70.0, f.balance(t, bea.ID))

	_, err = f.movements.Create(ctx, MovementInput{MemberID: ana.ID, Type: domain.MovementIncome, Amount: 70, Description: "Pago cuota"})
	require.NoError(t, err)

	totals, err := f.movements.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, -140.0, totals.Expenses)
	assert.Equal(t, 70.0, totals.Incomes)
}

func TestMovementService_TeamLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := f.member(t, "ana", 0, false)

	_, err := f.movements.Create(ctx, MovementInput{MemberID: ana.ID, Type: domain.MovementIncome, Amount: 30, Description: "Cuota"})
	require.NoError(t, err)

	pitch, err := f.movements.CreateTeam(ctx, MovementInput{Type: domain.MovementExpense, Amount: 60, Description: "Alquiler campo"})
	require.NoError(t, err)
	assert.Equal(t, -60.0, pitch.Amount)
	_, err = f.movements.CreateTeam(ctx, MovementInput{Type: domain.MovementIncome, Amount: 10, Description: "Patrocinio"})
	require.NoError(t, err)

	list, err := f.movements.ListTeam(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, pitch.ID, list[0].ID)

	pitch, err = f.movements.UpdateTeam(ctx, pitch.ID, AmendInput{Amount: 50, Description: "Alquiler campo"})
	require.NoError(t, err)
	assert.Equal(t, -50.0, pitch.Amount)

	balance, err := f.movements.ClubBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, -50.0, balance.Expenses)
	assert.Equal(t, 40.0, balance.Incomes)

	require.NoError(t, f.movements.DeleteTeam(ctx, pitch.ID))
	_, err = f.movements.GetTeam(ctx, pitch.ID)
	assert.True(t, domain.HasCode(err, domain.CodeMovementNotFound))
}
