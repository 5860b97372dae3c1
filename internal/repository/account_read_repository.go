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

const accountViewKeyPrefix = "account:view:"

// accountCacheEntry is the internal Redis representation of an account.
// Unlike models.AccountView it keeps the balance in minor units and carries
// UserID so ownership checks can be served from the cache.
type accountCacheEntry struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"accountNumber"`
	UserID        string    `json:"userId"`
	Balance       int64     `json:"balanceMinor"`
	CreatedAt     time.Time `json:"createdTimestamp"`
	UpdatedAt     time.Time `json:"updatedTimestamp"`
}

// AccountReadRepository handles all read operations for accounts.
// It treats Redis as the primary read store and falls back to PostgreSQL
// transparently, warming the cache on every cold read. The cache is
// refreshed after every posting, so it only ever lags the write store by
// the window between commit and refresh.
type AccountReadRepository struct {
	db    *sql.DB
	cache *redisx.ViewCache[accountCacheEntry]
}

func NewAccountReadRepository(db *sql.DB, redisClient *goredis.Client) *AccountReadRepository {
	return &AccountReadRepository{
		db:    db,
		cache: redisx.NewViewCache[accountCacheEntry](redisClient, 0),
	}
}

func cacheEntryToView(e *accountCacheEntry) *models.AccountView {
	return &models.AccountView{
		ID:            e.ID,
		AccountNumber: e.AccountNumber,
		UserID:        e.UserID,
		Balance:       models.ToMajorUnits(e.Balance),
		Currency:      models.DefaultCurrency,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// AccountToView converts the write model to the read view model.
func AccountToView(a *models.Account) *models.AccountView {
	return &models.AccountView{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		UserID:        a.UserID,
		Balance:       models.ToMajorUnits(a.Balance),
		Currency:      models.DefaultCurrency,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// GetByID returns an AccountView, trying Redis first then PostgreSQL.
func (r *AccountReadRepository) GetByID(ctx context.Context, accountID string) (*models.AccountView, error) {
	cacheKey := accountViewKeyPrefix + accountID

	if entry, ok := r.cache.Get(ctx, cacheKey); ok {
		return cacheEntryToView(entry), nil
	}

	query := `
		SELECT id, account_number, user_id, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	var account models.Account
	pgErr := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&account.ID, &account.AccountNumber, &account.UserID,
		&account.Balance, &account.CreatedAt, &account.UpdatedAt,
	)
	if pgErr == sql.ErrNoRows {
		return nil, ledger.ErrAccountNotFound
	}
	if pgErr != nil {
		return nil, fmt.Errorf("failed to get account: %w", pgErr)
	}

	view := AccountToView(&account)
	r.CacheAccountView(ctx, view)
	return view, nil
}

// ListByUserID returns all AccountViews for the given user from PostgreSQL,
// in creation order, oldest first.
func (r *AccountReadRepository) ListByUserID(ctx context.Context, userID string) ([]models.AccountView, error) {
	query := `
		SELECT id, account_number, user_id, balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var views []models.AccountView
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(
			&account.ID, &account.AccountNumber, &account.UserID,
			&account.Balance, &account.CreatedAt, &account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		views = append(views, *AccountToView(&account))
	}
	return views, rows.Err()
}

// CacheAccountView stores or refreshes the Redis read model for an account.
// Called after every mutation to keep the read model current.
func (r *AccountReadRepository) CacheAccountView(ctx context.Context, view *models.AccountView) {
	entry := &accountCacheEntry{
		ID:            view.ID,
		AccountNumber: view.AccountNumber,
		UserID:        view.UserID,
		Balance:       models.ToMinorUnits(view.Balance),
		CreatedAt:     view.CreatedAt,
		UpdatedAt:     view.UpdatedAt,
	}
	r.cache.Set(ctx, accountViewKeyPrefix+view.ID, entry)
}
