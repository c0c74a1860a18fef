//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// SeedMember inserts a member directly. The password is the login identity "name.fc".
func (env *TestEnv) SeedMember(name string, role domain.Role) *domain.Member {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	m := &domain.Member{
		ID:      uuid.New(),
		Name:    name,
		Surname: "fc",
		Phone:   "600000000",
		Role:    role,
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(m.Identity()), bcrypt.MinCost)
	if err != nil {
		env.t.Fatalf("SeedMember: hash: %v", err)
	}
	m.PasswordHash = string(hash)

	if err := repository.NewMemberRepository().Create(ctx, env.Pool, m); err != nil {
		env.t.Fatalf("SeedMember: %v", err)
	}
	return m
}

// Login authenticates m with its default password and returns the JWT.
func (env *TestEnv) Login(m *domain.Member) string {
	env.t.Helper()
	env.nonce++
	resp := env.POST("/v1/login", map[string]interface{}{
		"username": m.Identity(),
		"password": m.Identity(),
		"nonce":    env.nonce,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		env.t.Fatalf("Login: expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"jwt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("Login: decode: %v", err)
	}
	return result.Token
}

// CreateMatch opens a match for day (YYYY-MM-DD) as admin and returns its id.
func (env *TestEnv) CreateMatch(day, adminToken string) uuid.UUID {
	env.t.Helper()
	resp := env.POST("/v1/matches", map[string]string{"matchDay": day}, adminToken)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		env.t.Fatalf("CreateMatch: expected 201, got %d", resp.StatusCode)
	}
	var result struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("CreateMatch: decode: %v", err)
	}
	return result.ID
}

// Day returns today (UTC) shifted by offset days, formatted as a match day.
func Day(offset int) string {
	return time.Now().UTC().AddDate(0, 0, offset).Format(domain.DateLayout)
}

// GET performs an unauthenticated GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	resp, err := http.Get(env.Server.URL + path)
	if err != nil {
		env.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// POST performs a POST request with optional auth token.
func (env *TestEnv) POST(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.do(http.MethodPost, path, body, token, nil)
}

// POSTWithHeaders performs a POST request with extra headers.
func (env *TestEnv) POSTWithHeaders(path string, body interface{}, token string, headers map[string]string) *http.Response {
	env.t.Helper()
	return env.do(http.MethodPost, path, body, token, headers)
}

// AuthGET performs an authenticated GET request.
func (env *TestEnv) AuthGET(path, token string) *http.Response {
	env.t.Helper()
	return env.do(http.MethodGet, path, nil, token, nil)
}

// AuthPUT performs an authenticated PUT request.
func (env *TestEnv) AuthPUT(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.do(http.MethodPut, path, body, token, nil)
}

// AuthPATCH performs an authenticated PATCH request.
func (env *TestEnv) AuthPATCH(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.do(http.MethodPatch, path, body, token, nil)
}

// AuthDELETE performs an authenticated DELETE request.
func (env *TestEnv) AuthDELETE(path, token string) *http.Response {
	env.t.Helper()
	return env.do(http.MethodDelete, path, nil, token, nil)
}

// AuthDELETEWithBody performs an authenticated DELETE request carrying a JSON body.
func (env *TestEnv) AuthDELETEWithBody(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.do(http.MethodDelete, path, body, token, nil)
}

// OPTIONS performs a CORS preflight request.
func (env *TestEnv) OPTIONS(path string) *http.Response {
	env.t.Helper()
	return env.do(http.MethodOptions, path, nil, "", map[string]string{
		"Origin":                        "https://club.example",
		"Access-Control-Request-Method": http.MethodPost,
	})
}

func (env *TestEnv) do(method, path string, body interface{}, token string, headers map[string]string) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("%s %s: encode: %v", method, path, err)
		}
	}
	req, err := http.NewRequest(method, env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("%s %s: new request: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}
