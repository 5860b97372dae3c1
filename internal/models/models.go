package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdTimestamp"`
}

// Account is the write model for a balance-holding account. Balance is held
// in integer minor units (pence) and is only ever changed by the ledger
// engine; every other component treats it as read-only.
type Account struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"accountNumber"`
	UserID        string    `json:"-"`
	Balance       int64     `json:"-"`
	CreatedAt     time.Time `json:"createdTimestamp"`
	UpdatedAt     time.Time `json:"updatedTimestamp"`
}

// Transaction is an immutable deposit/withdraw record. Once appended it is
// never updated or deleted.
type Transaction struct {
	ID        string    `json:"id"`
	AccountID string    `json:"-"`
	UserID    string    `json:"userId"`
	Kind      string    `json:"type"`
	Amount    int64     `json:"-"`
	CreatedAt time.Time `json:"createdTimestamp"`
}
