package fundfolio

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Field names of a statement record.
const (
	FieldAccount    = "folio"
	FieldInstrument = "isin"
	FieldName       = "schemeName"
	FieldDate       = "trxnDate"
	FieldQuantity   = "trxnUnits"
	FieldPrice      = "purchasePrice"
)

// RawRecord is a transaction record as found in a statement, before validation.
//
// Values are usually strings; numbers are decoded as json.Number.
type RawRecord map[string]any

// statementEntry is one element of the statement "data" list.
type statementEntry struct {
	Transactions []RawRecord `json:"dtTransaction"`
}

// DecodeStatement reads the transaction records of a consolidated account statement.
//
// The document is either an object {"data": [{"dtTransaction": [...]}]} or
// directly the list [{"dtTransaction": [...]}]. Records of every entry are
// returned in document order.
func DecodeStatement(r io.Reader) ([]RawRecord, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, fmt.Errorf("cannot read statement: %w", err)
	}

	dec := json.NewDecoder(br)
	dec.UseNumber()

	var entries []statementEntry
	switch first {
	case '{':
		var doc struct {
			Data []statementEntry `json:"data"`
		}
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("cannot decode statement: %w", err)
		}
		if doc.Data == nil {
			return nil, &ValidationError{Index: -1, Field: "data", Err: ErrMissingField}
		}
		entries = doc.Data
	case '[':
		if err := dec.Decode(&entries); err != nil {
			return nil, fmt.Errorf("cannot decode statement: %w", err)
		}
	default:
		return nil, fmt.Errorf("cannot decode statement: unexpected %q at start of document", first)
	}

	if len(entries) == 0 {
		return nil, &ValidationError{Index: -1, Field: "data", Err: errors.New("statement has no entry")}
	}
	var records []RawRecord
	for _, e := range entries {
		if e.Transactions == nil {
			return nil, &ValidationError{Index: -1, Field: "dtTransaction", Err: ErrMissingField}
		}
		records = append(records, e.Transactions...)
	}
	return records, nil
}

// peekNonSpace skips leading whitespace and returns the next byte without consuming it.
func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			br.ReadByte()
		default:
			return b[0], nil
		}
	}
}
