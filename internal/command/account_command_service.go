package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/harborbank/ledger-service/internal/cqrs"
	"github.com/harborbank/ledger-service/internal/events"
	"github.com/harborbank/ledger-service/internal/models"
	"github.com/harborbank/ledger-service/internal/repository"
	"github.com/harborbank/ledger-service/internal/utils"
)

// AccountCommandService creates accounts and keeps the account read model in
// sync. It never touches balances; that is the ledger engine's job.
type AccountCommandService struct {
	writeRepo *repository.AccountWriteRepository
	readRepo  *repository.AccountReadRepository
	publisher *events.Publisher
}

func NewAccountCommandService(
	writeRepo *repository.AccountWriteRepository,
	readRepo *repository.AccountReadRepository,
	publisher *events.Publisher,
) *AccountCommandService {
	return &AccountCommandService{
		writeRepo: writeRepo,
		readRepo:  readRepo,
		publisher: publisher,
	}
}

// CreateAccount opens an account with the caller-supplied account number and
// a zero balance. A taken number surfaces as ErrDuplicateAccountNumber.
func (s *AccountCommandService) CreateAccount(ctx context.Context, cmd cqrs.CreateAccountCommand) (*models.AccountView, error) {
	now := time.Now().UTC()
	account := &models.Account{
		ID:            utils.GenerateID("acc"),
		AccountNumber: cmd.AccountNumber,
		UserID:        cmd.UserID,
		Balance:       0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.writeRepo.Create(account); err != nil {
		return nil, err
	}
	view := repository.AccountToView(account)
	s.readRepo.CacheAccountView(ctx, view)
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountCreated, events.AccountCreatedEvent{
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		UserID:        account.UserID,
	}); err != nil {
		log.Printf("Failed to publish account.created event: %v", err)
	}
	return view, nil
}

// HandleTransactionEvent is the Redis stream subscriber handler. It reacts
// to transaction.posted events by re-reading the account from the write
// store and refreshing the read model, so caches stay warm even when another
// instance committed the posting. Re-reading makes the refresh idempotent
// under at-least-once delivery.
func (s *AccountCommandService) HandleTransactionEvent(ctx context.Context, event events.Event) error {
	if event.Type != events.TransactionPosted {
		return nil
	}
	dataBytes, _ := json.Marshal(event.Data)
	var data events.TransactionPostedEvent
	if err := json.Unmarshal(dataBytes, &data); err != nil {
		return fmt.Errorf("failed to unmarshal transaction.posted event: %w", err)
	}
	account, err := s.writeRepo.GetByID(data.AccountID)
	if err != nil {
		return fmt.Errorf("failed to get account for read model refresh: %w", err)
	}
	s.readRepo.CacheAccountView(ctx, repository.AccountToView(account))
	return nil
}
