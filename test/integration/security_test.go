//go:build integration

package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/test/integration/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurity_MissingOrForgedToken(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ana := env.SeedMember("ana", domain.RoleUser)

	resp := env.AuthGET("/v1/members/me", "")
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       ana.Identity(),
		"member_id": ana.ID.String(),
		"role":      "ADMIN",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("not-the-server-secret"))
	require.NoError(t, err)

	resp = env.AuthGET("/v1/members/me", signed)
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
}

func TestSecurity_ExpiredToken(t *testing.T) {
	env := testutil.NewTestEnv(t)
	ana := env.SeedMember("ana", domain.RoleUser)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       ana.Identity(),
		"member_id": ana.ID.String(),
		"role":      "USER",
		"exp":       time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte(testutil.TestJWTSecret))
	require.NoError(t, err)

	resp := env.AuthGET("/v1/members/me", signed)
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
}

func TestSecurity_IdempotencyKey(t *testing.T) {
	env := testutil.NewTestEnv(t)
	admin := env.Login(env.SeedMember("boss", domain.RoleAdmin))
	ana := env.SeedMember("ana", domain.RoleUser)
	body := map[string]interface{}{"member_id": ana.ID, "type": "INCOME", "amount": 5, "description": "Cash"}
	headers := map[string]string{"Idempotency-Key": "pay-1"}

	resp := env.POSTWithHeaders("/v1/movements", body, admin, headers)
	testutil.AssertStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	resp = env.POSTWithHeaders("/v1/movements", body, admin, headers)
	testutil.AssertStatus(t, resp, http.StatusConflict)
	resp.Body.Close()

	testutil.AssertBalance(t, env, ana.ID, 5)
}

func TestSecurity_CORSPreflight(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.OPTIONS("/v1/login")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestSecurity_HealthIsPublic(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.GET("/health")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
