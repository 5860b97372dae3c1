package ledger

import (
	"context"

	"github.com/harborbank/ledger-service/internal/models"
)

// Store is the engine's persistence handle. InTx runs fn inside a single
// durability unit: every write issued through the Tx is committed together
// or not at all. If fn returns an error the unit is rolled back and the
// error is surfaced unchanged.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of writes the engine performs inside one unit. A storage
// implementation must make AccountForUpdate exclude concurrent writers of
// the same account row (row-level lock or equivalent), so that mutual
// exclusion holds even across process instances.
type Tx interface {
	// AccountForUpdate reads the current account state and locks it for the
	// remainder of the unit. Returns ErrAccountNotFound if no such account.
	AccountForUpdate(ctx context.Context, accountID string) (*models.Account, error)

	// UpdateBalance sets the account balance read-modify-written by the engine.
	UpdateBalance(ctx context.Context, accountID string, newBalance int64) error

	// AppendTransaction appends an immutable transaction record.
	AppendTransaction(ctx context.Context, txn *models.Transaction) error
}
