package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harborbank/ledger-service/internal/ledger"
	"github.com/harborbank/ledger-service/internal/models"
)

// LedgerStore is the PostgreSQL implementation of ledger.Store. Each InTx
// call is one database transaction; AccountForUpdate takes a row-level lock
// (SELECT ... FOR UPDATE), so per-account mutual exclusion holds even when
// several service instances share the database.
type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) InTx(ctx context.Context, fn func(tx ledger.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&ledgerTx{tx: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type ledgerTx struct {
	tx *sql.Tx
}

func (t *ledgerTx) AccountForUpdate(ctx context.Context, accountID string) (*models.Account, error) {
	query := `
		SELECT id, account_number, user_id, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`
	var account models.Account
	err := t.tx.QueryRowContext(ctx, query, accountID).Scan(
		&account.ID, &account.AccountNumber, &account.UserID,
		&account.Balance, &account.CreatedAt, &account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	return &account, nil
}

func (t *ledgerTx) UpdateBalance(ctx context.Context, accountID string, newBalance int64) error {
	query := `
		UPDATE accounts
		SET balance = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := t.tx.ExecContext(ctx, query, accountID, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ledger.ErrAccountNotFound
	}
	return nil
}

func (t *ledgerTx) AppendTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, user_id, type, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := t.tx.ExecContext(ctx, query,
		txn.ID, txn.AccountID, txn.UserID, txn.Kind, txn.Amount, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}
