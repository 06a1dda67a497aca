package fundfolio

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestDecodeStatement(t *testing.T) {
	f, err := os.Open("testdata/statement.json")
	if err != nil {
		t.Fatalf("cannot open statement: %v", err)
	}
	defer f.Close()

	records, err := DecodeStatement(f)
	if err != nil {
		t.Fatalf("DecodeStatement() unexpected error: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("DecodeStatement() = %d records, want 4", len(records))
	}
	if got := records[2][FieldQuantity]; got != json.Number("25.5") {
		t.Errorf("numeric units decoded as %#v, want json.Number", got)
	}
	if got := records[0][FieldAccount]; got != "1234567/89" {
		t.Errorf("folio = %#v", got)
	}
}

func TestDecodeStatement_TopLevelList(t *testing.T) {
	doc := `[{"dtTransaction": [{"isin": "A"}]}, {"dtTransaction": [{"isin": "B"}]}]`
	records, err := DecodeStatement(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeStatement() unexpected error: %v", err)
	}
	if len(records) != 2 || records[0]["isin"] != "A" || records[1]["isin"] != "B" {
		t.Errorf("DecodeStatement() = %v", records)
	}
}

func TestDecodeStatement_Errors(t *testing.T) {
	testCases := []struct {
		name           string
		doc            string
		wantValidation bool
	}{
		{"empty", "", false},
		{"not json", "hello", false},
		{"truncated", `{"data": [`, false},
		{"no data", `{"other": 1}`, true},
		{"empty data", `{"data": []}`, true},
		{"no transactions", `{"data": [{}]}`, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeStatement(strings.NewReader(tc.doc))
			if err == nil {
				t.Fatal("DecodeStatement() = nil, want error")
			}
			if got := errors.Is(err, ErrValidation); got != tc.wantValidation {
				t.Errorf("errors.Is(%v, ErrValidation) = %v, want %v", err, got, tc.wantValidation)
			}
		})
	}
}
