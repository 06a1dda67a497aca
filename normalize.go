package fundfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/fundfolio/date"
	"github.com/shopspring/decimal"
)

// Normalizer turns raw statement records into validated transactions.
type Normalizer struct {
	// Currency of the statement prices. Empty means unspecified.
	Currency string
}

// Normalize validates records and returns them as transactions sorted by
// trade date. Records sharing a trade date keep their input order.
//
// The first invalid record aborts normalization with a *ValidationError.
func (n Normalizer) Normalize(records []RawRecord) ([]Transaction, error) {
	txs := make([]Transaction, 0, len(records))
	for i, rec := range records {
		tx, err := n.transaction(i, rec)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		return a.Date.Compare(b.Date)
	})
	return txs, nil
}

func (n Normalizer) transaction(i int, rec RawRecord) (Transaction, error) {
	if rec == nil {
		return Transaction{}, &ValidationError{Index: i, Err: errors.New("record is null")}
	}
	var (
		tx  Transaction
		err error
	)
	if tx.Account, err = text(i, rec, FieldAccount); err != nil {
		return tx, err
	}
	if tx.Instrument, err = text(i, rec, FieldInstrument); err != nil {
		return tx, err
	}
	if tx.Name, err = text(i, rec, FieldName); err != nil {
		return tx, err
	}

	on, err := text(i, rec, FieldDate)
	if err != nil {
		return tx, err
	}
	if tx.Date, err = date.ParseTrade(on); err != nil {
		return tx, &ValidationError{Index: i, Field: FieldDate, Value: on, Err: err}
	}

	units, err := number(i, rec, FieldQuantity)
	if err != nil {
		return tx, err
	}
	tx.Quantity = Q(units)

	price, err := number(i, rec, FieldPrice)
	if err != nil {
		return tx, err
	}
	tx.Price = M(price, n.Currency)

	return tx, tx.Validate(i)
}

// text returns a required non-empty string field.
func text(i int, rec RawRecord, field string) (string, error) {
	v, ok := rec[field]
	if !ok || v == nil {
		return "", &ValidationError{Index: i, Field: field, Err: ErrMissingField}
	}
	var s string
	switch v := v.(type) {
	case string:
		s = v
	case json.Number:
		// folio numbers are sometimes written as bare numbers.
		s = v.String()
	default:
		return "", &ValidationError{Index: i, Field: field, Value: v, Err: fmt.Errorf("want a string, got %T", v)}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ValidationError{Index: i, Field: field, Err: ErrMissingField}
	}
	return s, nil
}

// number returns a required decimal field, written either as a JSON number or a string.
func number(i int, rec RawRecord, field string) (decimal.Decimal, error) {
	v, ok := rec[field]
	if !ok || v == nil {
		return decimal.Decimal{}, &ValidationError{Index: i, Field: field, Err: ErrMissingField}
	}
	var s string
	switch v := v.(type) {
	case string:
		s = strings.TrimSpace(v)
		if s == "" {
			return decimal.Decimal{}, &ValidationError{Index: i, Field: field, Err: ErrMissingField}
		}
	case json.Number:
		s = v.String()
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return decimal.Decimal{}, &ValidationError{Index: i, Field: field, Value: v, Err: fmt.Errorf("want a number, got %T", v)}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &ValidationError{Index: i, Field: field, Value: s, Err: fmt.Errorf("not a number: %w", err)}
	}
	return d, nil
}
