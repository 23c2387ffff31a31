package ledger

import "errors"

// ErrInvalidAmount indicates a missing, zero or negative amount. The store
// is never touched when this is returned.
var ErrInvalidAmount = errors.New("amount must be positive")
