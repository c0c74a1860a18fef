package guard

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

const (
	MaxAttempts   = 5
	LockoutWindow = 15 * time.Minute
)

// Lockout blocks a username after MaxAttempts failed logins within LockoutWindow.
type Lockout struct {
	db       repository.DBTX
	attempts repository.LoginAttemptRepository
	clock    clockwork.Clock
	logger   *slog.Logger
}

// NewLockout creates a lockout guard over the login_attempts table.
func NewLockout(db repository.DBTX, attempts repository.LoginAttemptRepository, clock clockwork.Clock, logger *slog.Logger) *Lockout {
	return &Lockout{db: db, attempts: attempts, clock: clock, logger: logger}
}

// RecordAttempt stores a login attempt. Failures to record are logged, not returned.
func (l *Lockout) RecordAttempt(ctx context.Context, username string, success bool) {
	if err := l.attempts.Record(ctx, l.db, username, success); err != nil {
		l.logger.Warn("record login attempt failed", "username", username, "error", err)
	}
}

// CheckLocked returns RATE_LIMITED if the username has >= MaxAttempts failed
// logins within the lockout window.
func (l *Lockout) CheckLocked(ctx context.Context, username string) error {
	count, err := l.attempts.CountFailuresSince(ctx, l.db, username, l.clock.Now().Add(-LockoutWindow))
	if err != nil {
		return nil // fail open on DB error; don't block login
	}
	if count >= MaxAttempts {
		return domain.ErrRateLimited("too many failed login attempts, try again later")
	}
	return nil
}
