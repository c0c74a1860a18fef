package provider

import (
	"context"
	"log/slog"
	"time"
)

// CaptainPicker draws captain indexes from RANDOM.ORG. It satisfies the
// match service's Picker.
type CaptainPicker struct {
	client  *RandomOrgClient
	timeout time.Duration
	logger  *slog.Logger
}

// NewCaptainPicker wraps client. Each draw is bounded by timeout.
func NewCaptainPicker(client *RandomOrgClient, timeout time.Duration, logger *slog.Logger) *CaptainPicker {
	return &CaptainPicker{client: client, timeout: timeout, logger: logger}
}

// IntN returns an index in [0, n). n must be positive.
func (p *CaptainPicker) IntN(n int) int {
	if n <= 1 {
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	nums, err := p.client.RandomIntegers(ctx, 1, 0, n-1)
	if err != nil || len(nums) != 1 {
		// only reachable when crypto/rand itself fails
		p.logger.Error("captain draw failed, picking first candidate", "error", err)
		return 0
	}
	return nums[0]
}
