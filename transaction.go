package fundfolio

import (
	"errors"
	"fmt"

	"github.com/etnz/fundfolio/date"
)

// Key identifies a position: one fund held in one account (folio).
type Key struct {
	Account    string
	Instrument string // ISIN
}

func (k Key) String() string { return fmt.Sprintf("%s/%s", k.Account, k.Instrument) }

// Transaction is a normalized buy or sell of fund units.
//
// A positive Quantity is a buy, a negative one a sell.
type Transaction struct {
	Account    string
	Instrument string
	Name       string // display name of the fund
	Quantity   Quantity
	Price      Money // unit price, never negative
	Date       date.Date
}

// NewBuy returns a buy transaction of 'quantity' units at 'price'.
func NewBuy(on date.Date, account, instrument, name string, quantity, price float64) Transaction {
	return Transaction{Account: account, Instrument: instrument, Name: name, Quantity: Q(quantity).Abs(), Price: M(price, ""), Date: on}
}

// NewSell returns a sell transaction of 'quantity' units at 'price'.
func NewSell(on date.Date, account, instrument, name string, quantity, price float64) Transaction {
	return Transaction{Account: account, Instrument: instrument, Name: name, Quantity: Q(quantity).Abs().Neg(), Price: M(price, ""), Date: on}
}

// Key returns the position this transaction applies to.
func (t Transaction) Key() Key { return Key{Account: t.Account, Instrument: t.Instrument} }

// IsBuy reports whether the transaction adds units.
func (t Transaction) IsBuy() bool { return t.Quantity.IsPositive() }

// Validate checks that the transaction is well formed.
// The returned error, if any, is a *ValidationError with Index 'index'.
func (t Transaction) Validate(index int) error {
	switch {
	case t.Account == "":
		return &ValidationError{Index: index, Field: FieldAccount, Err: ErrMissingField}
	case t.Instrument == "":
		return &ValidationError{Index: index, Field: FieldInstrument, Err: ErrMissingField}
	case t.Date.IsZero():
		return &ValidationError{Index: index, Field: FieldDate, Err: ErrMissingField}
	case t.Quantity.IsZero():
		return &ValidationError{Index: index, Field: FieldQuantity, Value: t.Quantity, Err: errors.New("quantity must not be zero")}
	case t.Price.IsNegative():
		return &ValidationError{Index: index, Field: FieldPrice, Value: t.Price.Decimal(), Err: errors.New("price must not be negative")}
	}
	return nil
}
