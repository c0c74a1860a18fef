package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptainCandidates(t *testing.T) {
	p1 := domain.Member{ID: uuid.New(), CaptaincyCount: 0}
	p2 := domain.Member{ID: uuid.New(), CaptaincyCount: 0}
	p3 := domain.Member{ID: uuid.New(), CaptaincyCount: 2}

	tests := []struct {
		name    string
		players []domain.Member
		want    []uuid.UUID
	}{
		{"empty", nil, nil},
		{"single", []domain.Member{p3}, []uuid.UUID{p3.ID}},
		{"ties at minimum", []domain.Member{p1, p2, p3}, []uuid.UUID{p1.ID, p2.ID}},
		{"minimum last", []domain.Member{p3, p1}, []uuid.UUID{p1.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []uuid.UUID
			for _, c := range CaptainCandidates(tt.players) {
				got = append(got, c.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectRandomCaptain_OnlyLowestCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, func(d *MatchServiceDeps) { d.Picker = NewRandomPicker() })
	p1 := f.member(t, "p1", 0, false)
	p2 := f.member(t, "p2", 0, false)
	p3 := f.member(t, "p3", 2, false)
	m := f.openMatch(t, 1)
	f.confirm(t, m.ID, domain.TeamA, p1, p2, p3)

	seen := map[uuid.UUID]int{}
	for range 200 {
		got, err := f.matches.SelectRandomCaptain(ctx, m.ID, domain.TeamA)
		require.NoError(t, err)
		require.NotNil(t, got.CaptainA)
		seen[*got.CaptainA]++
	}

	assert.Zero(t, seen[p3.ID])
	assert.Equal(t, 200, seen[p1.ID]+seen[p2.ID])
}

func TestSelectRandomCaptain_UsesPicker(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, func(d *MatchServiceDeps) { d.Picker = fixedPicker{i: 1} })
	p1 := f.member(t, "p1", 1, false)
	p2 := f.member(t, "p2", 1, false)
	m := f.openMatch(t, 1)
	f.confirm(t, m.ID, domain.TeamB, p1, p2)

	got, err := f.matches.SelectRandomCaptain(ctx, m.ID, domain.TeamB)
	require.NoError(t, err)
	require.NotNil(t, got.CaptainB)
	assert.Equal(t, p2.ID, *got.CaptainB)

	events := f.store.OutboxEvents()
	assert.Equal(t, domain.EventCaptainChosen, events[len(events)-1].EventType)
}

func TestSelectRandomCaptain_EmptyTeam(t *testing.T) {
	f := newFixture(t)
	m := f.openMatch(t, 1)

	got, err := f.matches.SelectRandomCaptain(context.Background(), m.ID, domain.TeamA)
	require.NoError(t, err)
	assert.Nil(t, got.CaptainA)
}

func TestSelectRandomCaptain_SkipsUnresolvable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	gone := f.member(t, "gone", 0, false)
	kept := f.member(t, "kept", 3, false)
	m := f.openMatch(t, 1)
	f.confirm(t, m.ID, domain.TeamA, gone, kept)
	require.NoError(t, f.members.Delete(ctx, gone.ID))

	got, err := f.matches.SelectRandomCaptain(ctx, m.ID, domain.TeamA)
	require.NoError(t, err)
	require.NotNil(t, got.CaptainA)
	assert.Equal(t, kept.ID, *got.CaptainA)
}

// hookPicker runs onDraw before its first draw and always picks index 0.
type hookPicker struct {
	draws  int
	onDraw func()
}

func (p *hookPicker) IntN(int) int {
	p.draws++
	if p.draws == 1 && p.onDraw != nil {
		p.onDraw()
	}
	return 0
}

func TestSelectRandomCaptain_DrawsOutsideMatchLock(t *testing.T) {
	ctx := context.Background()
	picker := &hookPicker{}
	f := newFixture(t, func(d *MatchServiceDeps) { d.Picker = picker })
	p1 := f.member(t, "p1", 0, false)
	p2 := f.member(t, "p2", 0, false)
	m := f.openMatch(t, 1)
	f.confirm(t, m.ID, domain.TeamA, p1, p2)

	// the roster changes while the draw is in flight; this blocks if the draw holds the lock
	picker.onDraw = func() {
		_, err := f.matches.RemoveFromTeam(ctx, m.ID, p1.ID, domain.TeamA)
		require.NoError(t, err)
	}

	got, err := f.matches.SelectRandomCaptain(ctx, m.ID, domain.TeamA)
	require.NoError(t, err)
	require.NotNil(t, got.CaptainA)
	assert.Equal(t, p2.ID, *got.CaptainA)
	assert.Equal(t, 2, picker.draws)
}

func TestSelectRandomCaptain_ClosedMatch(t *testing.T) {
	ctx := context.Background()
	picker := &hookPicker{}
	f := newFixture(t, func(d *MatchServiceDeps) { d.Picker = picker })
	m := f.openMatch(t, 1)
	_, err := f.matches.Close(ctx, m.ID)
	require.NoError(t, err)

	_, err = f.matches.SelectRandomCaptain(ctx, m.ID, domain.TeamA)
	assert.True(t, domain.HasCode(err, domain.CodeMatchClosed))
	assert.Zero(t, picker.draws)
}
