//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/test/integration/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type matchView struct {
	ID           uuid.UUID `json:"id"`
	MatchDay     string    `json:"match_day"`
	Closed       bool      `json:"closed"`
	Unconfirmed  []member  `json:"unconfirmed"`
	Confirmed    []member  `json:"confirmed"`
	NotAvailable []member  `json:"not_available"`
	TeamA        team      `json:"team_a"`
	TeamB        team      `json:"team_b"`
}

type member struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type team struct {
	Players []member `json:"players"`
	Guests  []string `json:"guests"`
	Captain *member  `json:"captain"`
}

func ids(ms []member) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func TestMatch_CreateSeedsUnconfirmed(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.Login(env.SeedMember("boss", domain.RoleAdmin))
	ana := env.SeedMember("ana", domain.RoleUser)
	bea := env.SeedMember("bea", domain.RoleUser)

	id := env.CreateMatch(testutil.Day(2), admin)

	resp := env.AuthGET("/v1/matches/next", admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var m matchView
	testutil.DecodeJSON(t, resp, &m)

	assert.Equal(t, id, m.ID)
	assert.Equal(t, testutil.Day(2), m.MatchDay)
	assert.ElementsMatch(t, []uuid.UUID{ana.ID, bea.ID}, ids(m.Unconfirmed))
	assert.Empty(t, m.Confirmed)
	assert.Equal(t, 1, testutil.CountOutboxEvents(t, env, id, string(domain.EventMatchCreated)))
}

func TestMatch_SecondUpcomingRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.Login(env.SeedMember("boss", domain.RoleAdmin))
	env.CreateMatch(testutil.Day(1), admin)

	resp := env.POST("/v1/matches", map[string]string{"matchDay": testutil.Day(8)}, admin)
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.AssertErrorCode(t, resp, domain.CodeMatchAlreadyExists)
}

func TestMatch_SamePastDayRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.Login(env.SeedMember("boss", domain.RoleAdmin))
	env.CreateMatch(testutil.Day(-7), admin)

	resp := env.POST("/v1/matches", map[string]string{"matchDay": testutil.Day(-7)}, admin)
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.AssertErrorCode(t, resp, domain.CodeMatchAlreadyExists)
}

func TestMatch_NoUpcoming(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token := env.Login(env.SeedMember("ana", domain.RoleUser))

	resp := env.AuthGET("/v1/matches/next", token)
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	testutil.AssertErrorCode(t, resp, domain.CodeNextMatchNotFound)
}

func TestMatch_AvailabilityMovesBetweenSets(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.Login(env.SeedMember("boss", domain.RoleAdmin))
	ana := env.SeedMember("ana", domain.RoleUser)
	token := env.Login(ana)
	id := env.CreateMatch(testutil.Day(1), admin)
	path := "/v1/matches/" + id.String() + "/players"

	resp := env.POST(path, map[string]string{"status": "AVAILABLE"}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var m matchView
	testutil.DecodeJSON(t, resp, &m)
	assert.Equal(t, []uuid.UUID{ana.ID}, ids(m.Confirmed))
	assert.Empty(t, m.Unconfirmed)

	resp = env.POST(path, map[string]string{"status": "NOT_AVAILABLE"}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &m)
	assert.Equal(t, []uuid.UUID{ana.ID}, ids(m.NotAvailable))
	assert.Empty(t, m.Confirmed)

	resp = env.POST(path, map[string]string{"status": "MAYBE"}, token)
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestMatch_TeamsAndGuests(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.Login(env.SeedMember("boss", domain.RoleAdmin))
	ana := env.SeedMember("ana", domain.RoleUser)
	bea := env.SeedMember("bea", domain.RoleUser)
	id := env.CreateMatch(testutil.Day(1), admin)
	base := "/v1/matches/" + id.String()

	env.POST(base+"/players", map[string]string{"status": "AVAILABLE"}, env.Login(ana)).Body.Close()

	resp := env.POST(base+"/players/"+bea.ID.String()+"/team/a", nil, admin)
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.AssertErrorCode(t, resp, domain.CodePlayerUnavailable)

	resp = env.POST(base+"/players/"+ana.ID.String()+"/team/a", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// moving to B leaves A
	resp = env.POST(base+"/players/"+ana.ID.String()+"/team/b", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var m matchView
	testutil.DecodeJSON(t, resp, &m)
	assert.Empty(t, m.TeamA.Players)
	assert.Equal(t, []uuid.UUID{ana.ID}, ids(m.TeamB.Players))

	resp = env.POST(base+"/guests/team/a", map[string]string{"guest": "Primo"}, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &m)
	assert.Equal(t, []string{"Primo"}, m.TeamA.Guests)

	resp = env.AuthDELETEWithBody(base+"/guests/team/a", map[string]string{"guest": "Primo"}, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &m)
	assert.Empty(t, m.TeamA.Guests)
}

func TestMatch_CaptainPrefersFewestCaptaincies(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.Login(env.SeedMember("boss", domain.RoleAdmin))
	ana := env.SeedMember("ana", domain.RoleUser)
	bea := env.SeedMember("bea", domain.RoleUser)
	_, err := env.Pool.Exec(t.Context(), "UPDATE members SET captaincy_count = 4 WHERE id = $1", ana.ID)
	require.NoError(t, err)

	id := env.CreateMatch(testutil.Day(1), admin)
	base := "/v1/matches/" + id.String()
	for _, m := range []*domain.Member{ana, bea} {
		env.POST(base+"/players", map[string]string{"status": "AVAILABLE"}, env.Login(m)).Body.Close()
		env.POST(base+"/players/"+m.ID.String()+"/team/a", nil, admin).Body.Close()
	}

	for range 5 {
		resp := env.POST(base+"/captain/a", nil, admin)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var m matchView
		testutil.DecodeJSON(t, resp, &m)
		require.NotNil(t, m.TeamA.Captain)
		assert.Equal(t, bea.ID, m.TeamA.Captain.ID)
	}
}

func TestMatch_CloseSettles(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.Login(env.SeedMember("boss", domain.RoleAdmin))
	ana := env.SeedMember("ana", domain.RoleUser)
	bea := env.SeedMember("bea", domain.RoleUser)
	cris := env.SeedMember("cris", domain.RoleUser)
	_, err := env.Pool.Exec(t.Context(), "UPDATE members SET injured = true WHERE id = $1", cris.ID)
	require.NoError(t, err)

	id := env.CreateMatch(testutil.Day(0), admin)
	base := "/v1/matches/" + id.String()
	env.POST(base+"/players", map[string]string{"status": "AVAILABLE"}, env.Login(ana)).Body.Close()
	env.POST(base+"/players/"+ana.ID.String()+"/team/a", nil, admin).Body.Close()
	env.POST(base+"/captain/a", nil, admin).Body.Close()

	resp := env.POST(base+"/close", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result struct {
		Match      matchView                `json:"match"`
		Settlement domain.SettlementSummary `json:"settlement"`
	}
	testutil.DecodeJSON(t, resp, &result)

	assert.True(t, result.Match.Closed)
	assert.Equal(t, []uuid.UUID{bea.ID}, result.Settlement.Fined)
	assert.Equal(t, []uuid.UUID{cris.ID}, result.Settlement.Exempted)
	assert.Equal(t, []uuid.UUID{ana.ID}, result.Settlement.CaptainsIncremented)

	testutil.AssertBalance(t, env, bea.ID, -1)
	testutil.AssertBalance(t, env, cris.ID, 0)
	testutil.AssertBalance(t, env, ana.ID, 0)
	assert.Equal(t, 1, testutil.CaptaincyCount(t, env, ana.ID))
	assert.Equal(t, 1, testutil.CountOutboxEvents(t, env, id, string(domain.EventMatchClosed)))

	// idempotent: a second close changes nothing
	resp = env.POST(base+"/close", nil, admin)
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	testutil.AssertErrorCode(t, resp, domain.CodeMatchClosed)
	testutil.AssertBalance(t, env, bea.ID, -1)
	assert.Equal(t, 1, testutil.CaptaincyCount(t, env, ana.ID))

	resp = env.POST(base+"/players", map[string]string{"status": "AVAILABLE"}, env.Login(bea))
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	testutil.AssertErrorCode(t, resp, domain.CodeMatchClosed)
}

func TestMatch_SweepClosesOverdue(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.Login(env.SeedMember("boss", domain.RoleAdmin))
	ana := env.SeedMember("ana", domain.RoleUser)

	overdue := env.CreateMatch(testutil.Day(-7), admin)
	upcoming := env.CreateMatch(testutil.Day(0), admin)

	resp := env.POST("/v1/matches/sweep", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report struct {
		Closed []struct {
			Match struct {
				ID uuid.UUID `json:"id"`
			} `json:"match"`
		} `json:"closed"`
		Failed []json.RawMessage `json:"failed"`
	}
	testutil.DecodeJSON(t, resp, &report)

	require.Len(t, report.Closed, 1)
	assert.Equal(t, overdue, report.Closed[0].Match.ID)
	assert.Empty(t, report.Failed)
	testutil.AssertBalance(t, env, ana.ID, -1)

	resp = env.AuthGET("/v1/matches/"+upcoming.String(), admin)
	var m matchView
	testutil.DecodeJSON(t, resp, &m)
	assert.False(t, m.Closed)
}

func TestMatch_DeleteAndNotFound(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.Login(env.SeedMember("boss", domain.RoleAdmin))
	id := env.CreateMatch(testutil.Day(1), admin)

	resp := env.AuthDELETE("/v1/matches/"+id.String(), admin)
	testutil.AssertStatus(t, resp, http.StatusNoContent)
	resp.Body.Close()

	resp = env.AuthGET("/v1/matches/"+id.String(), admin)
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	testutil.AssertErrorCode(t, resp, domain.CodeMatchNotFound)
}
