package memory

import (
	"context"
	"slices"
	"time"

	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

type outboxRepo Store

func (r *outboxRepo) Insert(_ context.Context, _ repository.DBTX, draft domain.OutboxDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSeq++
	r.outbox = append(r.outbox, domain.OutboxRow{SeqID: r.nextSeq, OutboxDraft: draft})
	return nil
}

func (r *outboxRepo) FetchUnpublishedRows(_ context.Context, _ repository.DBTX, limit int) ([]domain.OutboxRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.outbox[:min(limit, len(r.outbox))]), nil
}

func (r *outboxRepo) MarkPublished(_ context.Context, _ repository.DBTX, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outbox = slices.DeleteFunc(r.outbox, func(row domain.OutboxRow) bool {
		return slices.Contains(ids, row.SeqID)
	})
	return nil
}

type loginAttemptRepo Store

func (r *loginAttemptRepo) Record(_ context.Context, _ repository.DBTX, username string, success bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, loginAttempt{username: username, success: success, createdAt: r.clock.Now()})
	return nil
}

func (r *loginAttemptRepo) CountFailuresSince(_ context.Context, _ repository.DBTX, username string, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.attempts {
		if a.username == username && !a.success && a.createdAt.After(since) {
			n++
		}
	}
	return n, nil
}
