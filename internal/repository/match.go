package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/matchday/platform/internal/domain"
)

// ErrDuplicateMatchDay is returned by MatchRepository.Create when a match
// already exists on the same day.
var ErrDuplicateMatchDay = errors.New("duplicate match day")

const uniqueViolation = "23505"

const matchColumns = `id, match_day, closed, confirmed, unconfirmed, not_available,
		       team_a, team_b, team_a_guests, team_b_guests, captain_a, captain_b,
		       created_at, updated_at`

type matchRepo struct{}

// NewMatchRepository returns a pgx-backed MatchRepository.
func NewMatchRepository() MatchRepository {
	return &matchRepo{}
}

func (r *matchRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Match, error) {
	row := db.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	return scanMatch(row)
}

func (r *matchRepo) LockForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Match, error) {
	row := db.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1 FOR UPDATE`, id)
	return scanMatch(row)
}

func (r *matchRepo) FindUpcoming(ctx context.Context, db DBTX, day time.Time) (*domain.Match, error) {
	row := db.QueryRow(ctx, `
		SELECT `+matchColumns+` FROM matches
		WHERE match_day >= $1
		ORDER BY match_day ASC
		LIMIT 1`, day)
	return scanMatch(row)
}

func (r *matchRepo) ListClosed(ctx context.Context, db DBTX) ([]domain.Match, error) {
	rows, err := db.Query(ctx, `
		SELECT `+matchColumns+` FROM matches
		WHERE closed = true
		ORDER BY match_day DESC`)
	if err != nil {
		return nil, fmt.Errorf("query closed matches: %w", err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

func (r *matchRepo) ListOverdue(ctx context.Context, db DBTX, day time.Time) ([]domain.Match, error) {
	rows, err := db.Query(ctx, `
		SELECT `+matchColumns+` FROM matches
		WHERE closed = false AND match_day < $1
		ORDER BY match_day ASC`, day)
	if err != nil {
		return nil, fmt.Errorf("query overdue matches: %w", err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

func (r *matchRepo) Create(ctx context.Context, db DBTX, m *domain.Match) error {
	_, err := db.Exec(ctx, `
		INSERT INTO matches (id, match_day, closed, confirmed, unconfirmed, not_available,
		                     team_a, team_b, team_a_guests, team_b_guests, captain_a, captain_b)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.MatchDay, m.Closed, m.Confirmed, m.Unconfirmed, m.NotAvailable,
		m.TeamA, m.TeamB, m.TeamAGuests, m.TeamBGuests, m.CaptainA, m.CaptainB,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("insert match %s: %w", m.MatchDay.Format(domain.DateLayout), ErrDuplicateMatchDay)
	}
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

func (r *matchRepo) Update(ctx context.Context, db DBTX, m *domain.Match) error {
	tag, err := db.Exec(ctx, `
		UPDATE matches
		SET closed = $2, confirmed = $3, unconfirmed = $4, not_available = $5,
		    team_a = $6, team_b = $7, team_a_guests = $8, team_b_guests = $9,
		    captain_a = $10, captain_b = $11, updated_at = now()
		WHERE id = $1`,
		m.ID, m.Closed, m.Confirmed, m.Unconfirmed, m.NotAvailable,
		m.TeamA, m.TeamB, m.TeamAGuests, m.TeamBGuests, m.CaptainA, m.CaptainB,
	)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update match %s: no rows affected", m.ID)
	}
	return nil
}

func (r *matchRepo) Delete(ctx context.Context, db DBTX, id uuid.UUID) (bool, error) {
	tag, err := db.Exec(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete match: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanMatch(row pgx.Row) (*domain.Match, error) {
	var m domain.Match
	err := row.Scan(&m.ID, &m.MatchDay, &m.Closed, &m.Confirmed, &m.Unconfirmed, &m.NotAvailable,
		&m.TeamA, &m.TeamB, &m.TeamAGuests, &m.TeamBGuests, &m.CaptainA, &m.CaptainB,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan match: %w", err)
	}
	m.MatchDay = domain.TruncateDay(m.MatchDay)
	return &m, nil
}

func collectMatches(rows pgx.Rows) ([]domain.Match, error) {
	var out []domain.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}
