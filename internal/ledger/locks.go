package ledger

import (
	"context"
	"sync"
)

// accountLocks serialises postings per account ID. Each account gets its own
// semaphore, so postings against different accounts never contend. Acquisition
// is channel-based so a caller whose context is cancelled while waiting backs
// out without touching any state.
//
// Semaphores are kept for the life of the process: one entry per account that
// has ever posted, which is bounded by the account table.
type accountLocks struct {
	mu   sync.Mutex
	sems map[string]chan struct{}
}

func newAccountLocks() *accountLocks {
	return &accountLocks{sems: make(map[string]chan struct{})}
}

func (l *accountLocks) sem(accountID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	sem, ok := l.sems[accountID]
	if !ok {
		sem = make(chan struct{}, 1)
		l.sems[accountID] = sem
	}
	return sem
}

// acquire blocks until the account's lock is held or ctx is done. On success
// it returns a release function that must be called exactly once.
func (l *accountLocks) acquire(ctx context.Context, accountID string) (func(), error) {
	sem := l.sem(accountID)
	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
