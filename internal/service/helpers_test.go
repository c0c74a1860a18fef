package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/guard"
	"github.com/matchday/platform/internal/ledger"
	"github.com/matchday/platform/internal/repository"
	"github.com/matchday/platform/internal/repository/memory"
	"github.com/matchday/platform/internal/settlement"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fixedPicker always picks index i (clamped to n-1).
type fixedPicker struct{ i int }

func (p fixedPicker) IntN(n int) int { return min(p.i, n-1) }

// failingMatches fails Update for the match ids in failOn.
type failingMatches struct {
	repository.MatchRepository
	failOn map[uuid.UUID]bool
}

func (r *failingMatches) Update(ctx context.Context, db repository.DBTX, m *domain.Match) error {
	if r.failOn[m.ID] {
		return errors.New("disk on fire")
	}
	return r.MatchRepository.Update(ctx, db, m)
}

type fixture struct {
	store     *memory.Store
	clock     *clockwork.FakeClock
	matches   *MatchService
	members   *MemberService
	movements *MovementService
}

func newFixture(t *testing.T, opts ...func(*MatchServiceDeps)) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC))
	store := memory.NewStore(clock)
	engine := ledger.NewEngine(store.Members(), store.Movements(), store.TeamMovements(), store.Outbox())

	deps := MatchServiceDeps{
		DB:         nil,
		Tx:         store.Transactor(),
		Matches:    store.Matches(),
		Members:    store.Members(),
		Outbox:     store.Outbox(),
		Settlement: settlement.NewMatchSettlement(engine, store.Members()),
		Locks:      guard.NewKeyedMutex(),
		Clock:      clock,
		Picker:     fixedPicker{},
		Logger:     testLogger,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	return &fixture{
		store:   store,
		clock:   clock,
		matches: NewMatchService(deps),
		members: NewMemberService(nil, store.Transactor(), store.Members(), store.Movements(), testLogger),
		movements: NewMovementService(MovementServiceDeps{
			Tx:        store.Transactor(),
			Engine:    engine,
			Members:   store.Members(),
			Movements: store.Movements(),
			Team:      store.TeamMovements(),
			AnnualFee: 70,
			Logger:    testLogger,
		}),
	}
}

// member inserts a USER directly into the store.
func (f *fixture) member(t *testing.T, name string, captaincies int, injured bool) *domain.Member {
	t.Helper()
	m := &domain.Member{
		ID:             uuid.New(),
		Name:           name,
		Surname:        "fc",
		Phone:          "600000000",
		Role:           domain.RoleUser,
		CaptaincyCount: captaincies,
		Injured:        injured,
	}
	require.NoError(t, f.store.Members().Create(context.Background(), nil, m))
	return m
}

func (f *fixture) day(offset int) time.Time {
	return domain.TruncateDay(f.clock.Now()).AddDate(0, 0, offset)
}

// openMatch creates a match for the given day offset from today.
func (f *fixture) openMatch(t *testing.T, offset int) *domain.Match {
	t.Helper()
	m, err := f.matches.Create(context.Background(), f.day(offset))
	require.NoError(t, err)
	return m
}

// confirm marks members available and assigns them to team.
func (f *fixture) confirm(t *testing.T, matchID uuid.UUID, team domain.Team, members ...*domain.Member) {
	t.Helper()
	ctx := context.Background()
	for _, m := range members {
		_, err := f.matches.SetAvailability(ctx, matchID, m.Identity(), domain.Available)
		require.NoError(t, err)
		_, err = f.matches.AssignToTeam(ctx, matchID, m.ID, team)
		require.NoError(t, err)
	}
}

func (f *fixture) balance(t *testing.T, id uuid.UUID) float64 {
	t.Helper()
	sum, err := f.store.Movements().SumByMember(context.Background(), nil, id)
	require.NoError(t, err)
	return sum
}

func (f *fixture) captaincies(t *testing.T, id uuid.UUID) int {
	t.Helper()
	m, err := f.store.Members().FindByID(context.Background(), nil, id)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m.CaptaincyCount
}
