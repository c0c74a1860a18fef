//go:build integration

package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
)

// DecodeJSON reads and decodes a JSON response body into dst.
func DecodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
}

// AssertStatus checks that the response has the expected HTTP status code.
func AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// AssertErrorCode checks that the response body contains the expected error code.
func AssertErrorCode(t *testing.T, resp *http.Response, expectedCode string) {
	t.Helper()
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	DecodeJSON(t, resp, &errResp)
	if errResp.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, errResp.Code, errResp.Message)
	}
}

// AssertBalance sums the member's movements and compares with expected.
func AssertBalance(t *testing.T, env *TestEnv, memberID uuid.UUID, expected float64) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var balance float64
	err := env.Pool.QueryRow(ctx,
		"SELECT COALESCE(SUM(amount), 0)::float8 FROM movements WHERE member_id = $1", memberID).Scan(&balance)
	if err != nil {
		t.Fatalf("AssertBalance: query: %v", err)
	}
	if balance != expected {
		t.Errorf("balance: expected %v, got %v", expected, balance)
	}
}

// CaptaincyCount returns the member's stored captaincy count.
func CaptaincyCount(t *testing.T, env *TestEnv, memberID uuid.UUID) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	if err := env.Pool.QueryRow(ctx,
		"SELECT captaincy_count FROM members WHERE id = $1", memberID).Scan(&count); err != nil {
		t.Fatalf("CaptaincyCount: %v", err)
	}
	return count
}

// CountOutboxEvents returns the number of outbox events of eventType for an aggregate.
func CountOutboxEvents(t *testing.T, env *TestEnv, aggregateID uuid.UUID, eventType string) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := env.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_outbox WHERE "aggregateId" = $1 AND "eventType" = $2`,
		aggregateID.String(), eventType).Scan(&count)
	if err != nil {
		t.Fatalf("CountOutboxEvents: %v", err)
	}
	return count
}
