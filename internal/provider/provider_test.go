package provider

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCSPRNGFallback_GeneratesInRange(t *testing.T) {
	// No API key → falls back to CSPRNG
	client := NewRandomOrgClient("", "", testLogger())

	nums, err := client.RandomIntegers(context.Background(), 10, 1, 100)
	require.NoError(t, err)
	assert.Len(t, nums, 10)

	for _, n := range nums {
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 100)
	}
}

func TestCSPRNGFallback_MinEqualsMax(t *testing.T) {
	client := NewRandomOrgClient("", "", testLogger())

	nums, err := client.RandomIntegers(context.Background(), 5, 42, 42)
	require.NoError(t, err)
	for _, n := range nums {
		assert.Equal(t, 42, n)
	}
}

func TestCSPRNGIntegers_InvalidRange(t *testing.T) {
	_, err := csprngIntegers(1, 100, 50)
	assert.Error(t, err)
}

func randomOrgServer(t *testing.T, status int, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params struct {
				APIKey string `json:"apiKey"`
				N      int    `json:"n"`
				Min    int    `json:"min"`
				Max    int    `json:"max"`
			} `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "generateIntegers", req.Method)
		assert.Equal(t, "key", req.Params.APIKey)

		w.WriteHeader(status)
		io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRandomIntegers_UsesAPI(t *testing.T) {
	srv := randomOrgServer(t, http.StatusOK, `{"result":{"random":{"data":[3,1]}}}`)
	client := NewRandomOrgClient("key", srv.URL, testLogger())

	nums, err := client.RandomIntegers(context.Background(), 2, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, nums)
}

func TestRandomIntegers_FallsBack(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reply  string
	}{
		{"http error", http.StatusServiceUnavailable, ``},
		{"rpc error", http.StatusOK, `{"error":{"message":"quota exceeded"}}`},
		{"out of range", http.StatusOK, `{"result":{"random":{"data":[99]}}}`},
		{"wrong count", http.StatusOK, `{"result":{"random":{"data":[]}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := randomOrgServer(t, tt.status, tt.reply)
			client := NewRandomOrgClient("key", srv.URL, testLogger())

			nums, err := client.RandomIntegers(context.Background(), 1, 0, 2)
			require.NoError(t, err)
			require.Len(t, nums, 1)
			assert.Contains(t, []int{0, 1, 2}, nums[0])
		})
	}
}

func TestCaptainPicker(t *testing.T) {
	srv := randomOrgServer(t, http.StatusOK, `{"result":{"random":{"data":[2]}}}`)
	picker := NewCaptainPicker(NewRandomOrgClient("key", srv.URL, testLogger()), time.Second, testLogger())

	assert.Equal(t, 2, picker.IntN(4))
	assert.Equal(t, 0, picker.IntN(1))
}

func TestCaptainPicker_OfflineStaysInRange(t *testing.T) {
	picker := NewCaptainPicker(NewRandomOrgClient("", "", testLogger()), time.Second, testLogger())
	for range 50 {
		n := picker.IntN(3)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 3)
	}
}
