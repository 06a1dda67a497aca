package fundfolio

import (
	"fmt"

	"github.com/etnz/fundfolio/date"
)

// DiagnosticKind classifies a non fatal condition met while folding or valuing.
type DiagnosticKind int

const (
	// Oversell: a sell asked for more units than the position held.
	Oversell DiagnosticKind = iota + 1
	// PriceUnavailable: no price could be found for a position.
	PriceUnavailable
)

func (k DiagnosticKind) String() string {
	switch k {
	case Oversell:
		return "oversell"
	case PriceUnavailable:
		return "price-unavailable"
	default:
		return "unknown"
	}
}

// Diagnostic is a non fatal condition attached to a position.
type Diagnostic struct {
	Kind DiagnosticKind
	Key  Key
	Name string
	Date date.Date // trade date of the sell, or valuation date
	// Unfilled is the part of an oversell that matched no lot.
	Unfilled Quantity
	// Seq is the position of the offending transaction in the folded stream, -1 for valuation.
	Seq   int
	Cause error
}

// Err returns the diagnostic as an error wrapping ErrOversell or ErrPriceUnavailable.
func (d Diagnostic) Err() error {
	switch d.Kind {
	case Oversell:
		return fmt.Errorf("%s on %s: %w: %s units unmatched", d.Key, d.Date, ErrOversell, d.Unfilled)
	case PriceUnavailable:
		if d.Cause != nil {
			return fmt.Errorf("%s as of %s: %w: %w", d.Key, d.Date, ErrPriceUnavailable, d.Cause)
		}
		return fmt.Errorf("%s as of %s: %w", d.Key, d.Date, ErrPriceUnavailable)
	default:
		return fmt.Errorf("%s: unknown diagnostic", d.Key)
	}
}

func (d Diagnostic) String() string { return d.Err().Error() }
