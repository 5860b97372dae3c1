package command

import (
	"context"
	"log"

	"github.com/harborbank/ledger-service/internal/cqrs"
	"github.com/harborbank/ledger-service/internal/events"
	"github.com/harborbank/ledger-service/internal/ledger"
	"github.com/harborbank/ledger-service/internal/models"
	"github.com/harborbank/ledger-service/internal/repository"
)

// TransactionCommandService posts transactions. It checks account ownership
// against the write store, then delegates the balance mutation and the
// append of the transaction record to the ledger engine, which applies both
// atomically under the account's lock.
type TransactionCommandService struct {
	engine      *ledger.Engine
	accountRepo *repository.AccountWriteRepository
	accountRead *repository.AccountReadRepository
	readRepo    *repository.TransactionReadRepository
	publisher   *events.Publisher
}

func NewTransactionCommandService(
	engine *ledger.Engine,
	accountRepo *repository.AccountWriteRepository,
	accountRead *repository.AccountReadRepository,
	readRepo *repository.TransactionReadRepository,
	publisher *events.Publisher,
) *TransactionCommandService {
	return &TransactionCommandService{
		engine:      engine,
		accountRepo: accountRepo,
		accountRead: accountRead,
		readRepo:    readRepo,
		publisher:   publisher,
	}
}

func (s *TransactionCommandService) PostTransaction(ctx context.Context, cmd cqrs.PostTransactionCommand) (*models.TransactionView, error) {
	kind, err := ledger.ParseKind(cmd.Kind)
	if err != nil {
		return nil, err
	}
	amount := models.ToMinorUnits(cmd.Amount)
	if amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}

	account, err := s.accountRepo.GetByID(cmd.AccountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != cmd.UserID {
		return nil, ledger.ErrForbidden
	}

	txn, err := s.engine.PostTransaction(ctx, cmd.AccountID, kind, amount)
	if err != nil {
		return nil, err
	}

	view := repository.TransactionToView(txn)
	s.readRepo.CacheTransactionView(ctx, view)
	s.refreshAccountView(ctx, cmd.AccountID, txn, kind, amount)
	return view, nil
}

// refreshAccountView re-reads the committed balance, warms the account read
// model and emits the posting events. All of it is best-effort: the posting
// itself is already durable.
func (s *TransactionCommandService) refreshAccountView(ctx context.Context, accountID string, txn *models.Transaction, kind ledger.Kind, amount int64) {
	account, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		log.Printf("Failed to refresh account view for %s: %v", accountID, err)
		return
	}
	s.accountRead.CacheAccountView(ctx, repository.AccountToView(account))

	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionPosted, events.TransactionPostedEvent{
		TransactionID: txn.ID,
		AccountID:     txn.AccountID,
		UserID:        txn.UserID,
		Kind:          txn.Kind,
		Amount:        txn.Amount,
	}); err != nil {
		log.Printf("Failed to publish transaction.posted event: %v", err)
	}

	change := amount
	if kind == ledger.KindWithdraw {
		change = -amount
	}
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.BalanceUpdated, events.BalanceUpdatedEvent{
		AccountID:  accountID,
		NewBalance: account.Balance,
		Change:     change,
	}); err != nil {
		log.Printf("Failed to publish balance.updated event: %v", err)
	}
}
