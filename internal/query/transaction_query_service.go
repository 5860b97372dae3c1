package query

import (
	"context"

	"github.com/harborbank/ledger-service/internal/cqrs"
	"github.com/harborbank/ledger-service/internal/ledger"
	"github.com/harborbank/ledger-service/internal/models"
	"github.com/harborbank/ledger-service/internal/repository"
)

// TransactionQueryService serves transaction reads. Ownership is always
// checked against the account read model before returning results.
type TransactionQueryService struct {
	readRepo    *repository.TransactionReadRepository
	accountRepo *repository.AccountReadRepository
}

func NewTransactionQueryService(readRepo *repository.TransactionReadRepository, accountRepo *repository.AccountReadRepository) *TransactionQueryService {
	return &TransactionQueryService{readRepo: readRepo, accountRepo: accountRepo}
}

func (s *TransactionQueryService) GetTransaction(ctx context.Context, q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
	account, err := s.accountRepo.GetByID(ctx, q.AccountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != q.UserID {
		return nil, ledger.ErrForbidden
	}
	return s.readRepo.GetByID(ctx, q.TransactionID, q.AccountID)
}

// ListTransactions returns the account's transaction log, oldest first.
func (s *TransactionQueryService) ListTransactions(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	account, err := s.accountRepo.GetByID(ctx, q.AccountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != q.UserID {
		return nil, ledger.ErrForbidden
	}
	return s.readRepo.ListByAccountID(ctx, q.AccountID)
}
