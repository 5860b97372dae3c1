package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/harborbank/ledger-service/internal/ledger"
	"github.com/harborbank/ledger-service/internal/models"
)

// MemoryStore is an in-memory implementation of ledger.Store used by the
// engine tests and for running the service without external dependencies.
// A single mutex guards all state; InTx stages writes and applies them only
// after the engine callback succeeds, so a failed posting leaves nothing
// behind. All reads return copies, never internal pointers.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	byNumber map[string]string // account number -> account ID
	txns     map[string][]models.Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*models.Account),
		byNumber: make(map[string]string),
		txns:     make(map[string][]models.Transaction),
	}
}

// CreateAccount registers an account with a zero balance, enforcing the
// unique account number.
func (s *MemoryStore) CreateAccount(account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byNumber[account.AccountNumber]; exists {
		return ledger.ErrDuplicateAccountNumber
	}
	cp := *account
	s.accounts[cp.ID] = &cp
	s.byNumber[cp.AccountNumber] = cp.ID
	return nil
}

// GetAccount returns a snapshot copy of the account.
func (s *MemoryStore) GetAccount(accountID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

// ListAccountsByUser returns snapshot copies in creation order.
func (s *MemoryStore) ListAccountsByUser(userID string) []models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Account
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ListTransactions returns the append-order transaction log for an account.
func (s *MemoryStore) ListTransactions(accountID string) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.txns[accountID]
	out := make([]models.Transaction, len(log))
	copy(out, log)
	return out
}

// InTx implements ledger.Store. The callback sees a consistent snapshot and
// its writes are staged; they become visible only if the callback returns nil.
func (s *MemoryStore) InTx(ctx context.Context, fn func(tx ledger.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s, balances: make(map[string]int64)}
	if err := fn(tx); err != nil {
		return err
	}

	now := time.Now().UTC()
	for id, balance := range tx.balances {
		account := s.accounts[id]
		account.Balance = balance
		account.UpdatedAt = now
	}
	for i := range tx.appended {
		txn := tx.appended[i]
		s.txns[txn.AccountID] = append(s.txns[txn.AccountID], txn)
	}
	return nil
}

type memTx struct {
	store    *MemoryStore
	balances map[string]int64
	appended []models.Transaction
}

func (t *memTx) AccountForUpdate(ctx context.Context, accountID string) (*models.Account, error) {
	account, ok := t.store.accounts[accountID]
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}
	cp := *account
	if staged, ok := t.balances[accountID]; ok {
		cp.Balance = staged
	}
	return &cp, nil
}

func (t *memTx) UpdateBalance(ctx context.Context, accountID string, newBalance int64) error {
	if _, ok := t.store.accounts[accountID]; !ok {
		return ledger.ErrAccountNotFound
	}
	t.balances[accountID] = newBalance
	return nil
}

func (t *memTx) AppendTransaction(ctx context.Context, txn *models.Transaction) error {
	t.appended = append(t.appended, *txn)
	return nil
}
