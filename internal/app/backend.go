package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matchday/platform/internal/repository"
	"github.com/matchday/platform/internal/repository/memory"
)

// Backend bundles a connection with the repositories that run on it.
type Backend struct {
	DB            repository.DBTX
	Tx            repository.Transactor
	Members       repository.MemberRepository
	Matches       repository.MatchRepository
	Movements     repository.MovementRepository
	TeamMovements repository.TeamMovementRepository
	Outbox        repository.OutboxRepository
	LoginAttempts repository.LoginAttemptRepository
	Ping          func(ctx context.Context) error
}

// PostgresBackend wires the pgx repositories to pool.
func PostgresBackend(pool *pgxpool.Pool) *Backend {
	return &Backend{
		DB:            pool,
		Tx:            repository.NewPgTransactor(pool),
		Members:       repository.NewMemberRepository(),
		Matches:       repository.NewMatchRepository(),
		Movements:     repository.NewMovementRepository(),
		TeamMovements: repository.NewTeamMovementRepository(),
		Outbox:        repository.NewOutboxRepository(),
		LoginAttempts: repository.NewLoginAttemptRepository(),
		Ping:          pool.Ping,
	}
}

// MemoryBackend wires the in-process store.
func MemoryBackend(store *memory.Store) *Backend {
	return &Backend{
		Tx:            store.Transactor(),
		Members:       store.Members(),
		Matches:       store.Matches(),
		Movements:     store.Movements(),
		TeamMovements: store.TeamMovements(),
		Outbox:        store.Outbox(),
		LoginAttempts: store.LoginAttempts(),
		Ping:          store.Ping,
	}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
