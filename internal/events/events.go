package events

import "time"

// Event types
const (
	UserCreated       = "user.created"
	AccountCreated    = "account.created"
	TransactionPosted = "transaction.posted"
	BalanceUpdated    = "balance.updated"
)

// Stream names
const (
	UserEventsStream        = "user.events"
	AccountEventsStream     = "account.events"
	TransactionEventsStream = "transaction.events"
)

// Event is the envelope written to a Redis stream. ID is a UUID assigned by
// the publisher so consumers can correlate redeliveries.
type Event struct {
	ID        string    `json:"eventId"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type UserCreatedEvent struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type AccountCreatedEvent struct {
	AccountID     string `json:"accountId"`
	AccountNumber string `json:"accountNumber"`
	UserID        string `json:"userId"`
}

// TransactionPostedEvent is emitted after the engine has durably committed
// both the balance change and the transaction record.
type TransactionPostedEvent struct {
	TransactionID string `json:"transactionId"`
	AccountID     string `json:"accountId"`
	UserID        string `json:"userId"`
	Kind          string `json:"type"`
	Amount        int64  `json:"amountMinor"`
}

type BalanceUpdatedEvent struct {
	AccountID  string `json:"accountId"`
	NewBalance int64  `json:"newBalanceMinor"`
	Change     int64  `json:"changeMinor"`
}
