package fundfolio

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("invalid transaction")

	// ErrMissingField indicates a required field is absent or empty in a record.
	ErrMissingField = errors.New("missing required field")

	// ErrOutOfOrder indicates a transaction dated before an earlier-applied
	// transaction of the same position.
	ErrOutOfOrder = errors.New("transaction out of date order")

	// ErrOversell indicates a sell asked for more units than the open lots hold.
	ErrOversell = errors.New("sell exceeds open units")

	// ErrPriceUnavailable indicates no price could be obtained for a position.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrNotFound is returned by a PriceSource that has no price within the lookback window.
	ErrNotFound = errors.New("price not found")
)

// ValidationError reports a malformed transaction record.
type ValidationError struct {
	Index int    // position of the record in the input, 0-based, -1 for the document itself
	Field string // offending field, empty when the record as a whole is invalid
	Value any    // offending value, if any
	Err   error
}

func (e *ValidationError) Error() string {
	where := "statement"
	if e.Index >= 0 {
		where = fmt.Sprintf("record #%d", e.Index)
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", where, e.Err)
	}
	if e.Value == nil {
		return fmt.Sprintf("%s: %s: %v", where, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s %q: %v", where, e.Field, fmt.Sprint(e.Value), e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func errUnknownCurrency(code string) error {
	return fmt.Errorf("unknown currency %q", code)
}
