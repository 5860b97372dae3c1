package cqrs

type CreateUserCommand struct {
	Username string
	Password string
}

type LoginCommand struct {
	Username string
	Password string
}

type RefreshTokenCommand struct {
	Token string
}

type CreateAccountCommand struct {
	UserID        string
	AccountNumber string
}

// PostTransactionCommand carries the amount in major units as received from
// the API; the command service converts to minor units before the engine.
type PostTransactionCommand struct {
	AccountID string
	UserID    string
	Kind      string
	Amount    float64
}
