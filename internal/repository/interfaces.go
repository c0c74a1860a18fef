package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/matchday/platform/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Transactor runs fn inside a single database transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx DBTX) error) error
}

// MemberRepository provides access to members.
type MemberRepository interface {
	// FindByID returns a member by ID, or nil if absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Member, error)

	// FindByName looks a member up by the two halves of their login identity.
	FindByName(ctx context.Context, db DBTX, name, surname string) (*domain.Member, error)

	// List returns every member ordered by name, surname.
	List(ctx context.Context, db DBTX) ([]domain.Member, error)

	// ListNonAdmin returns the members that take part in matches.
	ListNonAdmin(ctx context.Context, db DBTX) ([]domain.Member, error)

	// Create inserts a new member.
	Create(ctx context.Context, db DBTX, member *domain.Member) error

	// Update writes the editable fields (name, surname, alias, phone, role, captaincy count).
	Update(ctx context.Context, db DBTX, member *domain.Member) error

	// Delete removes a member. Returns false if nothing was deleted.
	Delete(ctx context.Context, db DBTX, id uuid.UUID) (bool, error)

	// IncrementCaptaincies bumps captaincy_count by one for each id.
	IncrementCaptaincies(ctx context.Context, db DBTX, ids []uuid.UUID) error

	// AdvanceNonce stores nonce only if it is strictly greater than the stored one.
	// Returns false when the nonce was stale.
	AdvanceNonce(ctx context.Context, db DBTX, id uuid.UUID, nonce int64) (bool, error)

	// SetInjured flags or unflags a member as injured.
	SetInjured(ctx context.Context, db DBTX, id uuid.UUID, injured bool) error

	// SetBlocked flags or unflags a member as blocked.
	SetBlocked(ctx context.Context, db DBTX, id uuid.UUID, blocked bool) error

	// UpdatePassword replaces the stored bcrypt hash.
	UpdatePassword(ctx context.Context, db DBTX, id uuid.UUID, hash string) error
}

// MatchRepository provides access to matches.
type MatchRepository interface {
	// FindByID returns a match by ID, or nil if absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Match, error)

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE) and returns the match.
	LockForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Match, error)

	// FindUpcoming returns the earliest match on or after day, or nil.
	FindUpcoming(ctx context.Context, db DBTX, day time.Time) (*domain.Match, error)

	// ListClosed returns closed matches, most recent first.
	ListClosed(ctx context.Context, db DBTX) ([]domain.Match, error)

	// ListOverdue returns open matches strictly before day, oldest first.
	ListOverdue(ctx context.Context, db DBTX, day time.Time) ([]domain.Match, error)

	// Create inserts a new match.
	Create(ctx context.Context, db DBTX, match *domain.Match) error

	// Update writes the roster, guests, captains and closed flag.
	Update(ctx context.Context, db DBTX, match *domain.Match) error

	// Delete removes a match. Returns false if nothing was deleted.
	Delete(ctx context.Context, db DBTX, id uuid.UUID) (bool, error)
}

// MovementRepository provides access to the movements ledger.
type MovementRepository interface {
	// Insert appends a movement. Returns the inserted row.
	Insert(ctx context.Context, db DBTX, params domain.PostMovementParams) (*domain.Movement, error)

	// FindByID returns a movement by ID, or nil if absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Movement, error)

	// List returns one page of movements matching filter, ordered by created_on DESC.
	List(ctx context.Context, db DBTX, filter domain.MovementFilter) (*domain.MovementPage, error)

	// Update rewrites type, amount and description of a movement.
	Update(ctx context.Context, db DBTX, mv *domain.Movement) error

	// Delete removes a movement. Returns false if nothing was deleted.
	Delete(ctx context.Context, db DBTX, id uuid.UUID) (bool, error)

	// SumByMember returns the balance of a single member.
	SumByMember(ctx context.Context, db DBTX, memberID uuid.UUID) (float64, error)

	// Totals aggregates all movements by type.
	Totals(ctx context.Context, db DBTX) (domain.LedgerTotals, error)
}

// TeamMovementRepository provides access to team_movements.
type TeamMovementRepository interface {
	// Insert appends a team movement. Returns the inserted row.
	Insert(ctx context.Context, db DBTX, params domain.PostTeamMovementParams) (*domain.TeamMovement, error)

	// FindByID returns a team movement by ID, or nil if absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.TeamMovement, error)

	// List returns every team movement ordered by created_on ASC.
	List(ctx context.Context, db DBTX) ([]domain.TeamMovement, error)

	// Update rewrites amount and description of a team movement.
	Update(ctx context.Context, db DBTX, mv *domain.TeamMovement) error

	// Delete removes a team movement. Returns false if nothing was deleted.
	Delete(ctx context.Context, db DBTX, id uuid.UUID) (bool, error)

	// Totals aggregates all team movements by type.
	Totals(ctx context.Context, db DBTX) (domain.LedgerTotals, error)
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the state change).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublishedRows returns unpublished events with their sequence ids.
	FetchUnpublishedRows(ctx context.Context, db DBTX, limit int) ([]domain.OutboxRow, error)

	// MarkPublished deletes published events.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}

// LoginAttemptRepository provides access to login_attempts.
type LoginAttemptRepository interface {
	// Record stores one login attempt outcome.
	Record(ctx context.Context, db DBTX, username string, success bool) error

	// CountFailuresSince counts failed attempts for username after since.
	CountFailuresSince(ctx context.Context, db DBTX, username string, since time.Time) (int, error)
}
