package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/matchday/platform/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type movementRepo struct{}

// NewMovementRepository returns a pgx-backed MovementRepository.
func NewMovementRepository() MovementRepository {
	return &movementRepo{}
}

func (r *movementRepo) Insert(ctx context.Context, db DBTX, params domain.PostMovementParams) (*domain.Movement, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO movements (member_id, type, amount, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, member_id, type, amount, description, created_on`,
		params.MemberID,
		string(params.Type),
		Float64ToNumeric(params.Amount),
		params.Description,
	)
	return scanMovement(row)
}

func (r *movementRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Movement, error) {
	row := db.QueryRow(ctx, `
		SELECT id, member_id, type, amount, description, created_on
		FROM movements WHERE id = $1`, id)
	return scanMovement(row)
}

// List builds the WHERE clause from the non-zero filter fields.
func (r *movementRepo) List(ctx context.Context, db DBTX, filter domain.MovementFilter) (*domain.MovementPage, error) {
	size := filter.Size
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	page := max(filter.Page, 0)

	whereClauses := []string{"true"}
	args := []interface{}{}
	argIdx := 1

	if filter.MemberID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("member_id = $%d", argIdx))
		args = append(args, *filter.MemberID)
		argIdx++
	}
	if filter.Description != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("description ILIKE '%%' || $%d || '%%'", argIdx))
		args = append(args, filter.Description)
		argIdx++
	}
	where := strings.Join(whereClauses, " AND ")

	var total int64
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM movements WHERE `+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count movements: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, member_id, type, amount, description, created_on
		FROM movements
		WHERE %s
		ORDER BY created_on DESC, id DESC
		LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, size, page*size)

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()

	movements, err := collectMovements(rows)
	if err != nil {
		return nil, err
	}
	if movements == nil {
		movements = []domain.Movement{}
	}
	return &domain.MovementPage{Movements: movements, Page: page, Size: size, Total: total}, nil
}

func (r *movementRepo) Update(ctx context.Context, db DBTX, mv *domain.Movement) error {
	_, err := db.Exec(ctx, `
		UPDATE movements SET type = $2, amount = $3, description = $4
		WHERE id = $1`,
		mv.ID, string(mv.Type), Float64ToNumeric(mv.Amount), mv.Description)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	return nil
}

func (r *movementRepo) Delete(ctx context.Context, db DBTX, id uuid.UUID) (bool, error) {
	tag, err := db.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete movement: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *movementRepo) SumByMember(ctx context.Context, db DBTX, memberID uuid.UUID) (float64, error) {
	var sum pgtype.Numeric
	err := db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM movements WHERE member_id = $1`, memberID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum member movements: %w", err)
	}
	return NumericToFloat64(sum)
}

func (r *movementRepo) Totals(ctx context.Context, db DBTX) (domain.LedgerTotals, error) {
	var expNum, incNum pgtype.Numeric
	err := db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE type = $1), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = $2), 0)
		FROM movements`,
		string(domain.MovementExpense), string(domain.MovementIncome)).Scan(&expNum, &incNum)
	if err != nil {
		return domain.LedgerTotals{}, fmt.Errorf("sum movements: %w", err)
	}

	var totals domain.LedgerTotals
	var convErr error
	totals.Expenses, convErr = NumericToFloat64(expNum)
	if convErr != nil {
		return domain.LedgerTotals{}, fmt.Errorf("convert expenses: %w", convErr)
	}
	totals.Incomes, convErr = NumericToFloat64(incNum)
	if convErr != nil {
		return domain.LedgerTotals{}, fmt.Errorf("convert incomes: %w", convErr)
	}
	return totals, nil
}

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	var mv domain.Movement
	var mvType string
	var amountNum pgtype.Numeric
	err := row.Scan(&mv.ID, &mv.MemberID, &mvType, &amountNum, &mv.Description, &mv.CreatedOn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	mv.Type = domain.MovementType(mvType)

	var convErr error
	mv.Amount, convErr = NumericToFloat64(amountNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert amount: %w", convErr)
	}
	return &mv, nil
}

func collectMovements(rows pgx.Rows) ([]domain.Movement, error) {
	var out []domain.Movement
	for rows.Next() {
		mv, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *mv)
	}
	return out, rows.Err()
}
