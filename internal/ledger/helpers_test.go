package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*Engine, *memory.Store) {
	t.Helper()
	store := memory.NewStore(clockwork.NewFakeClock())
	return NewEngine(store.Members(), store.Movements(), store.TeamMovements(), store.Outbox()), store
}

func addMember(t *testing.T, store *memory.Store, name string, role domain.Role) *domain.Member {
	t.Helper()
	m := &domain.Member{ID: uuid.New(), Name: name, Surname: "test", Role: role}
	require.NoError(t, store.Members().Create(context.Background(), nil, m))
	return m
}

// --- ExecutePost Tests ---

func TestExecutePost(t *testing.T) {
	ctx := context.Background()

	t.Run("expense sign is forced negative", func(t *testing.T) {
		engine, store := newTestEngine(t)
		m := addMember(t, store, "ana", domain.RoleUser)

		mv, err := engine.ExecutePost(ctx, nil, domain.PostMovementParams{
			MemberID: m.ID, Type: domain.MovementExpense, Amount: 12.5, Description: "Balls",
		})
		require.NoError(t, err)
		assert.Equal(t, -12.5, mv.Amount)
	})

	t.Run("income sign is forced positive", func(t *testing.T) {
		engine, store := newTestEngine(t)
		m := addMember(t, store, "ana", domain.RoleUser)

		mv, err := engine.ExecutePost(ctx, nil, domain.PostMovementParams{
			MemberID: m.ID, Type: domain.MovementIncome, Amount: -20,
		})
		require.NoError(t, err)
		assert.Equal(t, 20.0, mv.Amount)
	})

	t.Run("unknown member", func(t *testing.T) {
		engine, _ := newTestEngine(t)
		_, err := engine.ExecutePost(ctx, nil, domain.PostMovementParams{
			MemberID: uuid.New(), Type: domain.MovementIncome, Amount: 5,
		})
		assert.True(t, domain.HasCode(err, domain.CodeMemberNotFound))
	})

	t.Run("invalid type", func(t *testing.T) {
		engine, store := newTestEngine(t)
		m := addMember(t, store, "ana", domain.RoleUser)
		_, err := engine.ExecutePost(ctx, nil, domain.PostMovementParams{
			MemberID: m.ID, Type: "GIFT", Amount: 5,
		})
		assert.True(t, domain.HasCode(err, domain.CodeValidation))
	})

	t.Run("writes an outbox event", func(t *testing.T) {
		engine, store := newTestEngine(t)
		m := addMember(t, store, "ana", domain.RoleUser)
		_, err := engine.ExecutePost(ctx, nil, domain.PostMovementParams{
			MemberID: m.ID, Type: domain.MovementIncome, Amount: 5,
		})
		require.NoError(t, err)

		events := store.OutboxEvents()
		require.Len(t, events, 1)
		assert.Equal(t, domain.EventMovementPosted, events[0].EventType)
	})
}

// --- AssessFine Tests ---

func TestAssessFine(t *testing.T) {
	engine, store := newTestEngine(t)
	m := addMember(t, store, "ana", domain.RoleUser)
	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	mv, err := engine.AssessFine(context.Background(), nil, m.ID, day)
	require.NoError(t, err)
	assert.Equal(t, domain.MovementExpense, mv.Type)
	assert.Equal(t, -1.0, mv.Amount)
	assert.Equal(t, "Fine for missing the match of 04/03/26", mv.Description)

	events := store.OutboxEvents()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventFineAssessed, events[0].EventType)
}

// --- ChargeAnnualFee Tests ---

func TestChargeAnnualFee(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)
	ana := addMember(t, store, "ana", domain.RoleUser)
	bea := addMember(t, store, "bea", domain.RoleUser)
	admin := addMember(t, store, "root", domain.RoleAdmin)

	charged, err := engine.ChargeAnnualFee(ctx, nil, 70)
	require.NoError(t, err)
	assert.Len(t, charged, 2)

	for _, id := range []uuid.UUID{ana.ID, bea.ID} {
		sum, err := store.Movements().SumByMember(ctx, nil, id)
		require.NoError(t, err)
		assert.Equal(t, -70.0, sum)
	}
	sum, err := store.Movements().SumByMember(ctx, nil, admin.ID)
	require.NoError(t, err)
	assert.Zero(t, sum)

	_, err = engine.ChargeAnnualFee(ctx, nil, 0)
	assert.True(t, domain.HasCode(err, domain.CodeValidation))
}

// --- ExecuteAmend / ExecuteRemove Tests ---

func TestExecuteAmend(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)
	m := addMember(t, store, "ana", domain.RoleUser)

	mv, err := engine.ExecutePost(ctx, nil, domain.PostMovementParams{
		MemberID: m.ID, Type: domain.MovementExpense, Amount: -3, Description: "old",
	})
	require.NoError(t, err)

	amended, err := engine.ExecuteAmend(ctx, nil, mv.ID, 8, "new")
	require.NoError(t, err)
	assert.Equal(t, domain.MovementExpense, amended.Type)
	assert.Equal(t, -8.0, amended.Amount)
	assert.Equal(t, "new", amended.Description)

	_, err = engine.ExecuteAmend(ctx, nil, uuid.New(), 8, "x")
	assert.True(t, domain.HasCode(err, domain.CodeMovementNotFound))
}

func TestExecuteRemove(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)
	m := addMember(t, store, "ana", domain.RoleUser)

	mv, err := engine.AssessFine(ctx, nil, m.ID, time.Now())
	require.NoError(t, err)

	require.NoError(t, engine.ExecuteRemove(ctx, nil, mv.ID))
	err = engine.ExecuteRemove(ctx, nil, mv.ID)
	assert.True(t, domain.HasCode(err, domain.CodeMovementNotFound))
}

// --- Team ledger Tests ---

func TestTeamMovements(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)
	m := addMember(t, store, "ana", domain.RoleUser)

	_, err := engine.ExecutePost(ctx, nil, domain.PostMovementParams{
		MemberID: m.ID, Type: domain.MovementIncome, Amount: 30,
	})
	require.NoError(t, err)
	_, err = engine.AssessFine(ctx, nil, m.ID, time.Now())
	require.NoError(t, err)

	pitch, err := engine.ExecuteTeamPost(ctx, nil, domain.PostTeamMovementParams{
		Type: domain.MovementExpense, Amount: 50, Description: "Pitch rental",
	})
	require.NoError(t, err)
	assert.Equal(t, -50.0, pitch.Amount)

	_, err = engine.ExecuteTeamPost(ctx, nil, domain.PostTeamMovementParams{
		Type: domain.MovementIncome, Amount: 10, Description: "Sponsor",
	})
	require.NoError(t, err)

	balance, err := engine.ClubBalance(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, -50.0, balance.Expenses)
	assert.Equal(t, 40.0, balance.Incomes)

	amended, err := engine.ExecuteTeamAmend(ctx, nil, pitch.ID, 45, "Pitch rental (discount)")
	require.NoError(t, err)
	assert.Equal(t, -45.0, amended.Amount)

	require.NoError(t, engine.ExecuteTeamRemove(ctx, nil, pitch.ID))
	err = engine.ExecuteTeamRemove(ctx, nil, pitch.ID)
	assert.True(t, domain.HasCode(err, domain.CodeMovementNotFound))
}
