package ledger

import (
	"errors"
	"fmt"
)

// Error kinds. Callers classify failures with errors.Is against these.
var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("not found")
	ErrReferentialIntegrity = errors.New("referential integrity violation")
	ErrDataCorruption       = errors.New("data corruption")
)

var (
	ErrProductNotFound     = fmt.Errorf("product %w", ErrNotFound)
	ErrInvoiceNotFound     = fmt.Errorf("invoice %w", ErrNotFound)
	ErrPartyNotFound       = fmt.Errorf("party %w", ErrNotFound)
	ErrExpenseNotFound     = fmt.Errorf("expense %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)

	ErrProductInUse       = fmt.Errorf("product in use: %w", ErrReferentialIntegrity)
	ErrPartyInUse         = fmt.Errorf("party in use: %w", ErrReferentialIntegrity)
	ErrBalanceOutstanding = fmt.Errorf("outstanding balance: %w", ErrReferentialIntegrity)

	ErrDuplicateID     = fmt.Errorf("duplicate id: %w", ErrValidation)
	ErrUsernameTaken   = fmt.Errorf("username taken: %w", ErrValidation)
	ErrNotManual       = fmt.Errorf("not a manual transaction: %w", ErrValidation)
	ErrInvalidPassword = errors.New("invalid credentials")
)

// Error attaches details to one of the sentinel errors above.
type Error struct {
	Err     error
	Details string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(err error, format string, args ...any) error {
	return &Error{Err: err, Details: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return fail(ErrValidation, format, args...)
}
