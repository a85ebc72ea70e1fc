package common

import "fmt"

// TxError is the kind of a transaction failure. Concrete errors wrap one of
// the kinds below, so callers match with errors.Is.
type TxError string

func (e TxError) Error() string {
	return string(e)
}

const (
	// ErrValidation marks malformed or out-of-range input and rule violations.
	ErrValidation = TxError("validation error")
	// ErrState marks operations that are not allowed in the current state,
	// such as hashing an unsigned transaction or mutating a frozen one.
	ErrState = TxError("state error")
)

func ValidationErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func StateErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrState, fmt.Sprintf(format, args...))
}
