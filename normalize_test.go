package fundfolio

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/etnz/fundfolio/date"
	"github.com/google/go-cmp/cmp"
)

func record(folio, isin, trxnDate, units, price string) RawRecord {
	return RawRecord{
		FieldAccount:    folio,
		FieldInstrument: isin,
		FieldName:       "Fund " + isin,
		FieldDate:       trxnDate,
		FieldQuantity:   units,
		FieldPrice:      price,
	}
}

func TestNormalize_Statement(t *testing.T) {
	f, err := os.Open("testdata/statement.json")
	if err != nil {
		t.Fatalf("cannot open statement: %v", err)
	}
	defer f.Close()
	records, err := DecodeStatement(f)
	if err != nil {
		t.Fatalf("DecodeStatement() unexpected error: %v", err)
	}

	txs, err := Normalizer{Currency: "INR"}.Normalize(records)
	if err != nil {
		t.Fatalf("Normalize() unexpected error: %v", err)
	}

	want := []Transaction{
		{Account: "1234567/89", Instrument: "INF209K01YY7", Name: "Aditya Birla Sun Life Liquid Fund - Growth", Quantity: Q(100), Price: M(10, "INR"), Date: date.New(2023, 3, 1)},
		{Account: "7654321/00", Instrument: "INF846K01EW2", Name: "Axis Bluechip Fund - Direct Growth", Quantity: Q(25.5), Price: M(40.25, "INR"), Date: date.New(2023, 3, 2)},
		{Account: "1234567/89", Instrument: "INF209K01YY7", Name: "Aditya Birla Sun Life Liquid Fund - Growth", Quantity: Q(50), Price: M(12, "INR"), Date: date.New(2023, 3, 3)},
		{Account: "1234567/89", Instrument: "INF209K01YY7", Name: "Aditya Birla Sun Life Liquid Fund - Growth", Quantity: Q(-120), Price: M(15, "INR"), Date: date.New(2023, 3, 5)},
	}
	if diff := cmp.Diff(want, txs, cmpOpts); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_StableSameDay(t *testing.T) {
	buyCheap := record(folioA, isinX, "01-Jan-2024", "10", "10")
	buyDear := record(folioA, isinX, "01-Jan-2024", "10", "20")
	sell := record(folioA, isinX, "02-Jan-2024", "-10", "30")

	testCases := []struct {
		name     string
		records  []RawRecord
		wantCost string
	}{
		{"cheap first", []RawRecord{sell, buyCheap, buyDear}, "20"},
		{"dear first", []RawRecord{sell, buyDear, buyCheap}, "10"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			txs, err := Normalizer{}.Normalize(tc.records)
			if err != nil {
				t.Fatalf("Normalize() unexpected error: %v", err)
			}
			p := mustPosition(t, mustFold(t, txs...), folioA, isinX)
			lots := p.Lots()
			if len(lots) != 1 {
				t.Fatalf("Lots() = %v, want 1 lot", lots)
			}
			if got := lots[0].Cost.Decimal().String(); got != tc.wantCost {
				t.Errorf("remaining lot cost = %s, want %s", got, tc.wantCost)
			}
		})
	}
}

func TestNormalize_SameDayBuyThenSell(t *testing.T) {
	records := []RawRecord{
		record(folioA, isinX, "01-Jan-2024", "10", "10"),
		record(folioA, isinX, "01-Jan-2024", "-10", "10"),
	}
	txs, err := Normalizer{}.Normalize(records)
	if err != nil {
		t.Fatalf("Normalize() unexpected error: %v", err)
	}
	l := mustFold(t, txs...)
	if len(l.Diagnostics()) != 0 {
		t.Errorf("Diagnostics() = %v, same day buy then sell must not oversell", l.Diagnostics())
	}
}

func TestNormalize_Errors(t *testing.T) {
	missing := func(field string) RawRecord {
		r := record(folioA, isinX, "01-Jan-2024", "1", "1")
		delete(r, field)
		return r
	}
	with := func(field string, v any) RawRecord {
		r := record(folioA, isinX, "01-Jan-2024", "1", "1")
		r[field] = v
		return r
	}

	testCases := []struct {
		name      string
		record    RawRecord
		wantField string
		wantCause error
	}{
		{"missing folio", missing(FieldAccount), FieldAccount, ErrMissingField},
		{"missing isin", missing(FieldInstrument), FieldInstrument, ErrMissingField},
		{"missing name", missing(FieldName), FieldName, ErrMissingField},
		{"missing date", missing(FieldDate), FieldDate, ErrMissingField},
		{"missing units", missing(FieldQuantity), FieldQuantity, ErrMissingField},
		{"missing price", missing(FieldPrice), FieldPrice, ErrMissingField},
		{"blank folio", with(FieldAccount, "  "), FieldAccount, ErrMissingField},
		{"null price", with(FieldPrice, nil), FieldPrice, ErrMissingField},
		{"bad date", with(FieldDate, "2024-01-01"), FieldDate, nil},
		{"bad units", with(FieldQuantity, "ten"), FieldQuantity, nil},
		{"bad price", with(FieldPrice, "1,000.00"), FieldPrice, nil},
		{"bool units", with(FieldQuantity, true), FieldQuantity, nil},
		{"zero units", with(FieldQuantity, "0"), FieldQuantity, nil},
		{"negative price", with(FieldPrice, "-1"), FieldPrice, nil},
		{"object folio", with(FieldAccount, map[string]any{}), FieldAccount, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records := []RawRecord{record(folioA, isinX, "01-Jan-2024", "1", "1"), tc.record}
			_, err := Normalizer{}.Normalize(records)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Normalize() = %v, want *ValidationError", err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("errors.Is(ErrValidation) = false for %v", err)
			}
			if verr.Index != 1 || verr.Field != tc.wantField {
				t.Errorf("ValidationError at record %d field %q, want record 1 field %q", verr.Index, verr.Field, tc.wantField)
			}
			if tc.wantCause != nil && !errors.Is(err, tc.wantCause) {
				t.Errorf("errors.Is(%v, %v) = false", err, tc.wantCause)
			}
		})
	}
}

func TestNormalize_NumericFolio(t *testing.T) {
	r := record(folioA, isinX, "01-Jan-2024", "1", "1")
	r[FieldAccount] = json.Number("12345")
	txs, err := Normalizer{}.Normalize([]RawRecord{r})
	if err != nil {
		t.Fatalf("Normalize() unexpected error: %v", err)
	}
	if txs[0].Account != "12345" {
		t.Errorf("Account = %q, want %q", txs[0].Account, "12345")
	}
}
