package apperr

import "errors"

// Domain errors of the ledger core. Handlers translate them to HTTP
// status codes with errors.Is; everything else is treated as internal.
var (
	ErrAccountNotFound         = errors.New("account not found")
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrInvalidTransactionState = errors.New("only pending transactions can be resolved")
	ErrInvalidInput            = errors.New("invalid input")
)

// Boundary errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
