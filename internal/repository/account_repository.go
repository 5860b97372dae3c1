package repository

import (
	"database/sql"
	"fmt"

	"github.com/harborbank/ledger-service/internal/ledger"
	"github.com/harborbank/ledger-service/internal/models"
)

// AccountWriteRepository handles account creation against the PostgreSQL
// write store. Balance mutation is deliberately absent here: the only write
// path for balances is the ledger engine's store transaction.
type AccountWriteRepository struct {
	db *sql.DB
}

func NewAccountWriteRepository(db *sql.DB) *AccountWriteRepository {
	return &AccountWriteRepository{db: db}
}

// Create inserts a new account with a zero balance. A duplicate account
// number surfaces as ledger.ErrDuplicateAccountNumber via the unique
// constraint on account_number.
func (r *AccountWriteRepository) Create(account *models.Account) error {
	query := `
		INSERT INTO accounts (id, account_number, user_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(query,
		account.ID, account.AccountNumber, account.UserID,
		account.Balance, account.CreatedAt, account.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ledger.ErrDuplicateAccountNumber
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByID fetches the full write model including UserID for ownership checks.
func (r *AccountWriteRepository) GetByID(accountID string) (*models.Account, error) {
	query := `
		SELECT id, account_number, user_id, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	var account models.Account
	err := r.db.QueryRow(query, accountID).Scan(
		&account.ID, &account.AccountNumber, &account.UserID,
		&account.Balance, &account.CreatedAt, &account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}
