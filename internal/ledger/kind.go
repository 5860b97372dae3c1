package ledger

// Kind is the closed set of transaction types. Free-form type strings from
// the API boundary must pass through ParseKind before reaching the engine.
type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
)

// ParseKind validates a raw type string from the API boundary.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDeposit:
		return KindDeposit, nil
	case KindWithdraw:
		return KindWithdraw, nil
	default:
		return "", ErrInvalidKind
	}
}
