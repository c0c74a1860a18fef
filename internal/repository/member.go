package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/matchday/platform/internal/domain"
)

const memberColumns = `id, name, surname, alias, phone, role, password_hash, nonce,
		       captaincy_count, injured, blocked, created_at, updated_at`

type memberRepo struct{}

// NewMemberRepository returns a pgx-backed MemberRepository.
func NewMemberRepository() MemberRepository {
	return &memberRepo{}
}

func (r *memberRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Member, error) {
	row := db.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	return scanMember(row)
}

func (r *memberRepo) FindByName(ctx context.Context, db DBTX, name, surname string) (*domain.Member, error) {
	row := db.QueryRow(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE lower(name) = lower($1) AND lower(surname) = lower($2)`, name, surname)
	return scanMember(row)
}

func (r *memberRepo) List(ctx context.Context, db DBTX) ([]domain.Member, error) {
	rows, err := db.Query(ctx, `SELECT `+memberColumns+` FROM members ORDER BY name, surname`)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()
	return collectMembers(rows)
}

func (r *memberRepo) ListNonAdmin(ctx context.Context, db DBTX) ([]domain.Member, error) {
	rows, err := db.Query(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE role <> $1 ORDER BY name, surname`, string(domain.RoleAdmin))
	if err != nil {
		return nil, fmt.Errorf("query non-admin members: %w", err)
	}
	defer rows.Close()
	return collectMembers(rows)
}

func (r *memberRepo) Create(ctx context.Context, db DBTX, m *domain.Member) error {
	_, err := db.Exec(ctx, `
		INSERT INTO members (id, name, surname, alias, phone, role, password_hash, nonce,
		                     captaincy_count, injured, blocked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		m.ID, m.Name, m.Surname, m.Alias, m.Phone, string(m.Role), m.PasswordHash, m.Nonce,
		m.CaptaincyCount, m.Injured, m.Blocked, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (r *memberRepo) Update(ctx context.Context, db DBTX, m *domain.Member) error {
	_, err := db.Exec(ctx, `
		UPDATE members
		SET name = $2, surname = $3, alias = $4, phone = $5, role = $6,
		    captaincy_count = $7, updated_at = now()
		WHERE id = $1`,
		m.ID, m.Name, m.Surname, m.Alias, m.Phone, string(m.Role), m.CaptaincyCount)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

func (r *memberRepo) Delete(ctx context.Context, db DBTX, id uuid.UUID) (bool, error) {
	tag, err := db.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete member: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *memberRepo) IncrementCaptaincies(ctx context.Context, db DBTX, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := db.Exec(ctx, `
		UPDATE members SET captaincy_count = captaincy_count + 1, updated_at = now()
		WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("increment captaincies: %w", err)
	}
	return nil
}

func (r *memberRepo) AdvanceNonce(ctx context.Context, db DBTX, id uuid.UUID, nonce int64) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE members SET nonce = $2
		WHERE id = $1 AND nonce < $2`, id, nonce)
	if err != nil {
		return false, fmt.Errorf("advance nonce: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *memberRepo) SetInjured(ctx context.Context, db DBTX, id uuid.UUID, injured bool) error {
	_, err := db.Exec(ctx, `UPDATE members SET injured = $2, updated_at = now() WHERE id = $1`, id, injured)
	if err != nil {
		return fmt.Errorf("set injured: %w", err)
	}
	return nil
}

func (r *memberRepo) SetBlocked(ctx context.Context, db DBTX, id uuid.UUID, blocked bool) error {
	_, err := db.Exec(ctx, `UPDATE members SET blocked = $2, updated_at = now() WHERE id = $1`, id, blocked)
	if err != nil {
		return fmt.Errorf("set blocked: %w", err)
	}
	return nil
}

func (r *memberRepo) UpdatePassword(ctx context.Context, db DBTX, id uuid.UUID, hash string) error {
	_, err := db.Exec(ctx, `UPDATE members SET password_hash = $2, updated_at = now() WHERE id = $1`, id, hash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	var role string
	err := row.Scan(&m.ID, &m.Name, &m.Surname, &m.Alias, &m.Phone, &role, &m.PasswordHash, &m.Nonce,
		&m.CaptaincyCount, &m.Injured, &m.Blocked, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan member: %w", err)
	}
	m.Role = domain.Role(role)
	return &m, nil
}

func collectMembers(rows pgx.Rows) ([]domain.Member, error) {
	var out []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}
