package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/harborbank/ledger-service/internal/ledger"
	"github.com/harborbank/ledger-service/internal/models"
	redisx "github.com/harborbank/ledger-service/internal/redis"
)

const transactionViewKeyPrefix = "transaction:view:"

// transactionCacheEntry keeps the amount in minor units in Redis; the
// major-unit conversion happens when the entry is turned into a view.
type transactionCacheEntry struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	UserID    string    `json:"userId"`
	Kind      string    `json:"type"`
	Amount    int64     `json:"amountMinor"`
	CreatedAt time.Time `json:"createdTimestamp"`
}

// TransactionReadRepository handles all read operations for transactions.
// It uses Redis as the primary read store, falling back to PostgreSQL on a
// miss. The underlying table is append-only; no update or delete exists
// anywhere in this repository.
type TransactionReadRepository struct {
	db    *sql.DB
	cache *redisx.ViewCache[transactionCacheEntry]
}

func NewTransactionReadRepository(db *sql.DB, redisClient *goredis.Client) *TransactionReadRepository {
	return &TransactionReadRepository{
		db:    db,
		cache: redisx.NewViewCache[transactionCacheEntry](redisClient, 0),
	}
}

// TransactionToView converts the write model to the read view model.
func TransactionToView(t *models.Transaction) *models.TransactionView {
	return &models.TransactionView{
		ID:        t.ID,
		AccountID: t.AccountID,
		UserID:    t.UserID,
		Kind:      t.Kind,
		Amount:    models.ToMajorUnits(t.Amount),
		Currency:  models.DefaultCurrency,
		CreatedAt: t.CreatedAt,
	}
}

func txCacheEntryToView(e *transactionCacheEntry) *models.TransactionView {
	return &models.TransactionView{
		ID:        e.ID,
		AccountID: e.AccountID,
		UserID:    e.UserID,
		Kind:      e.Kind,
		Amount:    models.ToMajorUnits(e.Amount),
		Currency:  models.DefaultCurrency,
		CreatedAt: e.CreatedAt,
	}
}

// GetByID returns a TransactionView by attempting Redis first, then PostgreSQL.
func (r *TransactionReadRepository) GetByID(ctx context.Context, id, accountID string) (*models.TransactionView, error) {
	cacheKey := fmt.Sprintf("%s%s:%s", transactionViewKeyPrefix, accountID, id)
	if entry, ok := r.cache.Get(ctx, cacheKey); ok {
		return txCacheEntryToView(entry), nil
	}

	query := `
		SELECT id, account_id, user_id, type, amount, created_at
		FROM transactions
		WHERE id = $1 AND account_id = $2
	`
	var txn models.Transaction
	pgErr := r.db.QueryRowContext(ctx, query, id, accountID).Scan(
		&txn.ID, &txn.AccountID, &txn.UserID,
		&txn.Kind, &txn.Amount, &txn.CreatedAt,
	)
	if pgErr == sql.ErrNoRows {
		return nil, ledger.ErrTransactionNotFound
	}
	if pgErr != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", pgErr)
	}

	view := TransactionToView(&txn)
	r.CacheTransactionView(ctx, view)
	return view, nil
}

// ListByAccountID returns all TransactionViews for an account from
// PostgreSQL, in creation order, oldest first.
func (r *TransactionReadRepository) ListByAccountID(ctx context.Context, accountID string) ([]models.TransactionView, error) {
	query := `
		SELECT id, account_id, user_id, type, amount, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var views []models.TransactionView
	for rows.Next() {
		var txn models.Transaction
		if err := rows.Scan(
			&txn.ID, &txn.AccountID, &txn.UserID,
			&txn.Kind, &txn.Amount, &txn.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		views = append(views, *TransactionToView(&txn))
	}
	return views, rows.Err()
}

// CacheTransactionView stores the read model for a transaction in Redis.
// Called by the command service immediately after a successful posting.
func (r *TransactionReadRepository) CacheTransactionView(ctx context.Context, view *models.TransactionView) {
	entry := &transactionCacheEntry{
		ID:        view.ID,
		AccountID: view.AccountID,
		UserID:    view.UserID,
		Kind:      view.Kind,
		Amount:    models.ToMinorUnits(view.Amount),
		CreatedAt: view.CreatedAt,
	}
	cacheKey := fmt.Sprintf("%s%s:%s", transactionViewKeyPrefix, view.AccountID, view.ID)
	r.cache.Set(ctx, cacheKey, entry)
}
