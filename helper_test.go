package fundfolio

import (
	"testing"
	"time"

	"github.com/etnz/fundfolio/date"
	"github.com/google/go-cmp/cmp"
)

// cmpOpts compares decimal based values by value, not by representation.
var cmpOpts = cmp.Options{
	cmp.Comparer(func(a, b Quantity) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Money) bool { return a.Decimal().Equal(b.Decimal()) && a.Currency() == b.Currency() }),
	cmp.Comparer(func(a, b date.Date) bool { return a == b }),
}

// day returns the n-th day of January 2024.
func day(n int) date.Date { return date.New(2024, time.January, n) }

func mustFold(t *testing.T, txs ...Transaction) *Ledger {
	t.Helper()
	l, err := Fold(txs)
	if err != nil {
		t.Fatalf("Fold() unexpected error: %v", err)
	}
	return l
}

func mustPosition(t *testing.T, l *Ledger, account, instrument string) *Position {
	t.Helper()
	p, ok := l.Position(Key{account, instrument})
	if !ok {
		t.Fatalf("Position(%s/%s) not found", account, instrument)
	}
	return p
}
