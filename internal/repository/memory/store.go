// Package memory is an in-process implementation of the repository interfaces
// for development and testing. Transactions are serialized and rolled back by
// restoring a snapshot taken when they began.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

// Store holds every table in memory.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	clock     clockwork.Clock
	members   map[uuid.UUID]domain.Member
	matches   map[uuid.UUID]domain.Match
	movements []domain.Movement
	outbox    []domain.OutboxRow
	attempts  []loginAttempt
	nextSeq   int64

	teamMovements []domain.TeamMovement
}

type loginAttempt struct {
	username  string
	success   bool
	createdAt time.Time
}

type snapshot struct {
	members   map[uuid.UUID]domain.Member
	matches   map[uuid.UUID]domain.Match
	movements []domain.Movement
	outbox    []domain.OutboxRow
	attempts  []loginAttempt
	nextSeq   int64

	teamMovements []domain.TeamMovement
}

// NewStore creates an empty store. clock stamps created_at and created_on.
func NewStore(clock clockwork.Clock) *Store {
	return &Store{
		clock:   clock,
		members: make(map[uuid.UUID]domain.Member),
		matches: make(map[uuid.UUID]domain.Match),
	}
}

// Transactor returns a Transactor over this store.
func (s *Store) Transactor() repository.Transactor { return (*transactor)(s) }

// Members returns a MemberRepository over this store.
func (s *Store) Members() repository.MemberRepository { return (*memberRepo)(s) }

// Matches returns a MatchRepository over this store.
func (s *Store) Matches() repository.MatchRepository { return (*matchRepo)(s) }

// Movements returns a MovementRepository over this store.
func (s *Store) Movements() repository.MovementRepository { return (*movementRepo)(s) }

// TeamMovements returns a TeamMovementRepository over this store.
func (s *Store) TeamMovements() repository.TeamMovementRepository { return (*teamMovementRepo)(s) }

// Outbox returns an OutboxRepository over this store.
func (s *Store) Outbox() repository.OutboxRepository { return (*outboxRepo)(s) }

// LoginAttempts returns a LoginAttemptRepository over this store.
func (s *Store) LoginAttempts() repository.LoginAttemptRepository { return (*loginAttemptRepo)(s) }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// OutboxEvents returns a copy of the pending outbox rows.
func (s *Store) OutboxEvents() []domain.OutboxRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.outbox)
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make(map[uuid.UUID]domain.Match, len(s.matches))
	for id, m := range s.matches {
		matches[id] = cloneMatch(m)
	}
	return snapshot{
		members:   maps.Clone(s.members),
		matches:   matches,
		movements: slices.Clone(s.movements),
		outbox:    slices.Clone(s.outbox),
		attempts:  slices.Clone(s.attempts),
		nextSeq:   s.nextSeq,

		teamMovements: slices.Clone(s.teamMovements),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members = snap.members
	s.matches = snap.matches
	s.movements = snap.movements
	s.outbox = snap.outbox
	s.attempts = snap.attempts
	s.nextSeq = snap.nextSeq
	s.teamMovements = snap.teamMovements
}

type transactor Store

// WithinTx runs fn with no concurrent transaction and undoes its writes if it fails.
func (t *transactor) WithinTx(ctx context.Context, fn func(tx repository.DBTX) error) error {
	s := (*Store)(t)
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := s.snapshot()
	if err := fn(nil); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func cloneMatch(m domain.Match) domain.Match {
	m.Confirmed = slices.Clone(m.Confirmed)
	m.Unconfirmed = slices.Clone(m.Unconfirmed)
	m.NotAvailable = slices.Clone(m.NotAvailable)
	m.TeamA = slices.Clone(m.TeamA)
	m.TeamB = slices.Clone(m.TeamB)
	m.TeamAGuests = slices.Clone(m.TeamAGuests)
	m.TeamBGuests = slices.Clone(m.TeamBGuests)
	if m.CaptainA != nil {
		c := *m.CaptainA
		m.CaptainA = &c
	}
	if m.CaptainB != nil {
		c := *m.CaptainB
		m.CaptainB = &c
	}
	return m
}
