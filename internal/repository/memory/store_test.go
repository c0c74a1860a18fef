package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() (*Store, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC))
	return NewStore(clock), clock
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	boom := errors.New("boom")

	member := &domain.Member{ID: uuid.New(), Name: "ana", Surname: "lopez", Role: domain.RoleUser}
	require.NoError(t, s.Members().Create(ctx, nil, member))

	err := s.Transactor().WithinTx(ctx, func(tx repository.DBTX) error {
		_, err := s.Movements().Insert(ctx, tx, domain.PostMovementParams{
			MemberID: member.ID, Type: domain.MovementExpense, Amount: -1,
		})
		require.NoError(t, err)
		require.NoError(t, s.Members().IncrementCaptaincies(ctx, tx, []uuid.UUID{member.ID}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	sum, err := s.Movements().SumByMember(ctx, nil, member.ID)
	require.NoError(t, err)
	assert.Zero(t, sum)

	stored, err := s.Members().FindByID(ctx, nil, member.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.CaptaincyCount)
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	err := s.Transactor().WithinTx(ctx, func(tx repository.DBTX) error {
		return s.Outbox().Insert(ctx, tx, domain.OutboxDraft{EventID: uuid.New()})
	})
	require.NoError(t, err)
	assert.Len(t, s.OutboxEvents(), 1)
}

func TestMatches_ReturnedCopiesAreDetached(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	id := uuid.New()
	m := domain.NewMatch(time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC), []uuid.UUID{id})
	require.NoError(t, s.Matches().Create(ctx, nil, m))

	got, err := s.Matches().FindByID(ctx, nil, m.ID)
	require.NoError(t, err)
	got.SetAvailability(id, domain.Available)

	again, err := s.Matches().FindByID(ctx, nil, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, again.Unconfirmed)
	assert.Empty(t, again.Confirmed)
}

func TestMatches_Queries(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC) }

	old := domain.NewMatch(day(2), nil)
	old.Closed = true
	older := domain.NewMatch(day(1), nil)
	older.Closed = true
	overdue := domain.NewMatch(day(9), nil)
	next := domain.NewMatch(day(21), nil)
	for _, m := range []*domain.Match{old, older, overdue, next} {
		require.NoError(t, s.Matches().Create(ctx, nil, m))
	}

	closed, err := s.Matches().ListClosed(ctx, nil)
	require.NoError(t, err)
	require.Len(t, closed, 2)
	assert.Equal(t, old.ID, closed[0].ID)

	due, err := s.Matches().ListOverdue(ctx, nil, day(16))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, overdue.ID, due[0].ID)

	upcoming, err := s.Matches().FindUpcoming(ctx, nil, day(16))
	require.NoError(t, err)
	require.NotNil(t, upcoming)
	assert.Equal(t, next.ID, upcoming.ID)

	none, err := s.Matches().FindUpcoming(ctx, nil, day(22))
	require.NoError(t, err)
	assert.Nil(t, none)

	assert.Error(t, s.Matches().Create(ctx, nil, domain.NewMatch(day(21), nil)))
}

func TestMovements_ListFiltersAndPages(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()
	ana, bea := uuid.New(), uuid.New()

	for i := 0; i < 5; i++ {
		_, err := s.Movements().Insert(ctx, nil, domain.PostMovementParams{
			MemberID: ana, Type: domain.MovementExpense, Amount: -1, Description: "Fine for missing the match",
		})
		require.NoError(t, err)
		clock.Advance(time.Hour)
	}
	_, err := s.Movements().Insert(ctx, nil, domain.PostMovementParams{
		MemberID: bea, Type: domain.MovementIncome, Amount: 20, Description: "Cash payment",
	})
	require.NoError(t, err)

	page, err := s.Movements().List(ctx, nil, domain.MovementFilter{MemberID: &ana, Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Len(t, page.Movements, 2)

	page, err = s.Movements().List(ctx, nil, domain.MovementFilter{Description: "CASH"})
	require.NoError(t, err)
	require.Len(t, page.Movements, 1)
	assert.Equal(t, bea, page.Movements[0].MemberID)

	all, err := s.Movements().List(ctx, nil, domain.MovementFilter{})
	require.NoError(t, err)
	assert.Equal(t, bea, all.Movements[0].MemberID, "newest first")

	totals, err := s.Movements().Totals(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, -5.0, totals.Expenses)
	assert.Equal(t, 20.0, totals.Incomes)
}

func TestMembers_AdvanceNonce(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	m := &domain.Member{ID: uuid.New(), Name: "ana", Surname: "lopez", Nonce: 10}
	require.NoError(t, s.Members().Create(ctx, nil, m))

	ok, err := s.Members().AdvanceNonce(ctx, nil, m.ID, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Members().AdvanceNonce(ctx, nil, m.ID, 11)
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := s.Members().FindByName(ctx, nil, "ANA", "Lopez")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(11), found.Nonce)
}
