package ledger

import "errors"

// Sentinel errors for the ledger core and its surrounding surface. Callers
// match them with errors.Is and map them to transport status codes; the
// engine never retries a business-rule error.
var (
	// ErrAccountNotFound is returned when no account exists for the given ID.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionNotFound is returned when no transaction exists for the given ID.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInsufficientBalance is returned when a withdrawal exceeds the current balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAmount is returned for non-positive amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidKind is returned for unrecognised transaction types.
	ErrInvalidKind = errors.New("invalid transaction type")

	// ErrDuplicateAccountNumber is returned when an account number is already taken.
	ErrDuplicateAccountNumber = errors.New("account number already exists")

	// ErrUsernameTaken is returned when a username is already registered.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrForbidden is returned when a user acts on a resource they do not own.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable is returned after the engine's retry budget for
	// transient storage failures is exhausted.
	ErrUnavailable = errors.New("storage unavailable")
)
