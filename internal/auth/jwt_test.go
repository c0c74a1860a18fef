package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/matchday/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTManager(clock clockwork.Clock) *JWTManager {
	return NewJWTManager("test-secret-key", clock, 24*time.Hour, 8*time.Hour)
}

func testMember(role domain.Role) *domain.Member {
	return &domain.Member{ID: uuid.New(), Name: "jaime", Surname: "torres", Role: role}
}

func TestGenerateAndValidateMemberToken(t *testing.T) {
	mgr := newTestJWTManager(clockwork.NewRealClock())
	member := testMember(domain.RoleUser)

	token, err := mgr.GenerateToken(member)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "jaime.torres", claims.Subject)
	assert.Equal(t, member.ID.String(), claims.MemberID)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestGenerateAndValidateAdminToken(t *testing.T) {
	mgr := newTestJWTManager(clockwork.NewRealClock())

	token, err := mgr.GenerateToken(testMember(domain.RoleAdmin))
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestUnknownRoleRejected(t *testing.T) {
	mgr := newTestJWTManager(clockwork.NewRealClock())
	_, err := mgr.GenerateToken(testMember("GUEST"))
	assert.Error(t, err)
}

func TestInvalidSecretRejected(t *testing.T) {
	clock := clockwork.NewRealClock()
	mgr1 := NewJWTManager("secret-1", clock, 24*time.Hour, 8*time.Hour)
	mgr2 := NewJWTManager("secret-2", clock, 24*time.Hour, 8*time.Hour)

	token, err := mgr1.GenerateToken(testMember(domain.RoleUser))
	require.NoError(t, err)

	_, err = mgr2.ValidateToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Now())
	mgr := newTestJWTManager(clock)

	token, err := mgr.GenerateToken(testMember(domain.RoleAdmin))
	require.NoError(t, err)

	clock.Advance(7 * time.Hour)
	_, err = mgr.ValidateToken(token)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = mgr.ValidateToken(token)
	assert.Error(t, err)
}

// --- Middleware Tests ---

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Subject", SubjectFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	mgr := newTestJWTManager(clockwork.NewRealClock())
	token, err := mgr.GenerateToken(testMember(domain.RoleUser))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid bearer", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Authenticate(mgr)(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "jaime.torres", rec.Header().Get("X-Subject"))
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(WriteRoles()...)(okHandler())

	t.Run("no claims", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("user is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithClaims(req.Context(), &Claims{Role: domain.RoleUser}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithClaims(req.Context(), &Claims{Role: domain.RoleAdmin}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
