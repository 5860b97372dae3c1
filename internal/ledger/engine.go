// Package ledger is the only component allowed to mutate account balances.
// It validates postings, serialises them per account, and applies the
// balance change and the transaction record as a single durability unit.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harborbank/ledger-service/internal/models"
	"github.com/harborbank/ledger-service/internal/utils"
)

const (
	defaultRetries = 3
	defaultBackoff = 50 * time.Millisecond
)

// Engine enforces the ledger invariants: balance never goes negative, every
// balance change has exactly one immutable transaction record, and both are
// committed atomically. The engine owns its Store handle explicitly; there
// is no package-level state.
type Engine struct {
	store   Store
	locks   *accountLocks
	retries int
	backoff time.Duration
}

func NewEngine(store Store) *Engine {
	return &Engine{
		store:   store,
		locks:   newAccountLocks(),
		retries: defaultRetries,
		backoff: defaultBackoff,
	}
}

// PostTransaction validates and applies one posting. Amount is in minor
// units and must be positive. The read-modify-write of the balance and the
// append of the transaction record happen under the account's lock and
// inside one storage transaction, so two postings against the same account
// can never interleave and a cancelled call never leaves partial state.
//
// Business-rule failures (unknown account, insufficient balance, bad input)
// are deterministic and returned immediately. Transient storage failures are
// retried with backoff up to the engine's budget, then surfaced as
// ErrUnavailable.
func (e *Engine) PostTransaction(ctx context.Context, accountID string, kind Kind, amount int64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	switch kind {
	case KindDeposit, KindWithdraw:
	default:
		return nil, ErrInvalidKind
	}

	release, err := e.locks.acquire(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer release()

	var lastErr error
	for attempt := 0; attempt <= e.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.backoff * time.Duration(attempt)):
			}
		}

		txn, err := e.postOnce(ctx, accountID, kind, amount)
		if err == nil {
			return txn, nil
		}
		if isTerminal(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (e *Engine) postOnce(ctx context.Context, accountID string, kind Kind, amount int64) (*models.Transaction, error) {
	var txn *models.Transaction
	err := e.store.InTx(ctx, func(tx Tx) error {
		account, err := tx.AccountForUpdate(ctx, accountID)
		if err != nil {
			return err
		}

		newBalance := account.Balance
		switch kind {
		case KindDeposit:
			newBalance += amount
		case KindWithdraw:
			if account.Balance < amount {
				return ErrInsufficientBalance
			}
			newBalance -= amount
		}

		if err := tx.UpdateBalance(ctx, accountID, newBalance); err != nil {
			return err
		}

		txn = &models.Transaction{
			ID:        utils.GenerateID("tan"),
			AccountID: account.ID,
			UserID:    account.UserID,
			Kind:      string(kind),
			Amount:    amount,
			CreatedAt: time.Now().UTC(),
		}
		return tx.AppendTransaction(ctx, txn)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// isTerminal reports whether err is deterministic and must not be retried.
func isTerminal(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
