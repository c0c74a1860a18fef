package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/matchday/platform/internal/domain"
)

type teamMovementRepo struct{}

// NewTeamMovementRepository returns a pgx-backed TeamMovementRepository.
func NewTeamMovementRepository() TeamMovementRepository {
	return &teamMovementRepo{}
}

func (r *teamMovementRepo) Insert(ctx context.Context, db DBTX, params domain.PostTeamMovementParams) (*domain.TeamMovement, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO team_movements (type, amount, description)
		VALUES ($1, $2, $3)
		RETURNING id, type, amount, description, created_on`,
		string(params.Type), Float64ToNumeric(params.Amount), params.Description)
	return scanTeamMovement(row)
}

func (r *teamMovementRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.TeamMovement, error) {
	row := db.QueryRow(ctx, `
		SELECT id, type, amount, description, created_on
		FROM team_movements WHERE id = $1`, id)
	return scanTeamMovement(row)
}

func (r *teamMovementRepo) List(ctx context.Context, db DBTX) ([]domain.TeamMovement, error) {
	rows, err := db.Query(ctx, `
		SELECT id, type, amount, description, created_on
		FROM team_movements
		ORDER BY created_on ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query team movements: %w", err)
	}
	defer rows.Close()

	var out []domain.TeamMovement
	for rows.Next() {
		mv, err := scanTeamMovement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *mv)
	}
	return out, rows.Err()
}

func (r *teamMovementRepo) Update(ctx context.Context, db DBTX, mv *domain.TeamMovement) error {
	_, err := db.Exec(ctx, `
		UPDATE team_movements SET amount = $2, description = $3
		WHERE id = $1`,
		mv.ID, Float64ToNumeric(mv.Amount), mv.Description)
	if err != nil {
		return fmt.Errorf("update team movement: %w", err)
	}
	return nil
}

func (r *teamMovementRepo) Delete(ctx context.Context, db DBTX, id uuid.UUID) (bool, error) {
	tag, err := db.Exec(ctx, `DELETE FROM team_movements WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete team movement: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *teamMovementRepo) Totals(ctx context.Context, db DBTX) (domain.LedgerTotals, error) {
	var expNum, incNum pgtype.Numeric
	err := db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE type = $1), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = $2), 0)
		FROM team_movements`,
		string(domain.MovementExpense), string(domain.MovementIncome)).Scan(&expNum, &incNum)
	if err != nil {
		return domain.LedgerTotals{}, fmt.Errorf("sum team movements: %w", err)
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

func scanTeamMovement(row pgx.Row) (*domain.TeamMovement, error) {
	var mv domain.TeamMovement
	var mvType string
	var amountNum pgtype.Numeric
	err := row.Scan(&mv.ID, &mvType, &amountNum, &mv.Description, &mv.CreatedOn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan team movement: %w", err)
	}
	mv.Type = domain.MovementType(mvType)

	var convErr error
	mv.Amount, convErr = NumericToFloat64(amountNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert amount: %w", convErr)
	}
	return &mv, nil
}
