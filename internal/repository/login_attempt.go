package repository

import (
	"context"
	"fmt"
	"time"
)

type loginAttemptRepo struct{}

// NewLoginAttemptRepository returns a pgx-backed LoginAttemptRepository.
func NewLoginAttemptRepository() LoginAttemptRepository {
	return &loginAttemptRepo{}
}

func (r *loginAttemptRepo) Record(ctx context.Context, db DBTX, username string, success bool) error {
	_, err := db.Exec(ctx, `
		INSERT INTO login_attempts (username, success)
		VALUES ($1, $2)`, username, success)
	if err != nil {
		return fmt.Errorf("record login attempt: %w", err)
	}
	return nil
}

func (r *loginAttemptRepo) CountFailuresSince(ctx context.Context, db DBTX, username string, since time.Time) (int, error) {
	var count int
	err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM login_attempts
		WHERE username = $1 AND success = false AND created_at > $2`,
		username, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count login failures: %w", err)
	}
	return count, nil
}
