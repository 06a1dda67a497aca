package fundfolio

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"

	"github.com/etnz/fundfolio/date"
	"golang.org/x/sync/errgroup"
)

// Ledger folds transactions into FIFO positions, one per (account, instrument).
//
// Transactions must be applied in trade date order within a position. A
// Ledger is not safe for concurrent use.
type Ledger struct {
	keys        []Key // in order of first appearance
	positions   map[Key]*Position
	last        map[Key]date.Date // latest trade date applied per position
	diagnostics []Diagnostic
	applied     int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{positions: make(map[Key]*Position), last: make(map[Key]date.Date)}
}

// checkOrder rejects tx if its position already saw a later trade date,
// and records tx's date otherwise.
func checkOrder(last map[Key]date.Date, index int, tx Transaction) error {
	key := tx.Key()
	if prev, ok := last[key]; ok && tx.Date.Before(prev) {
		return &ValidationError{
			Index: index,
			Field: FieldDate,
			Value: tx.Date,
			Err:   fmt.Errorf("%w: position already traded on %s", ErrOutOfOrder, prev),
		}
	}
	last[key] = tx.Date
	return nil
}

// Apply applies one transaction to its position.
//
// An invalid transaction, or one dated before the latest trade of its
// position, is rejected with a *ValidationError and leaves the ledger
// untouched. A sell exceeding the open units is applied as far
// as possible and recorded as an Oversell diagnostic.
func (l *Ledger) Apply(tx Transaction) error {
	if err := tx.Validate(l.applied); err != nil {
		return err
	}
	if err := checkOrder(l.last, l.applied, tx); err != nil {
		return err
	}
	seq := l.applied
	l.applied++
	if d := l.position(tx).apply(seq, tx); d != nil {
		l.diagnostics = append(l.diagnostics, *d)
	}
	return nil
}

// position resolves or creates the position of tx.
func (l *Ledger) position(tx Transaction) *Position {
	key := tx.Key()
	p, exists := l.positions[key]
	if !exists {
		p = newPosition(tx)
		l.positions[key] = p
		l.keys = append(l.keys, key)
	}
	return p
}

// Position returns the position for key.
func (l *Ledger) Position(key Key) (*Position, bool) {
	p, ok := l.positions[key]
	return p, ok
}

// Positions iterates over positions in order of first appearance.
func (l *Ledger) Positions() iter.Seq[*Position] {
	return func(yield func(*Position) bool) {
		for _, k := range l.keys {
			if !yield(l.positions[k]) {
				return
			}
		}
	}
}

// Keys returns position keys in order of first appearance.
func (l *Ledger) Keys() []Key { return slices.Clone(l.keys) }

// Len returns the number of positions.
func (l *Ledger) Len() int { return len(l.keys) }

// Diagnostics returns the oversells met so far, in application order.
func (l *Ledger) Diagnostics() []Diagnostic { return slices.Clone(l.diagnostics) }

// Fold applies an ordered transaction stream to a new ledger.
func Fold(txs []Transaction) (*Ledger, error) {
	l := NewLedger()
	for _, tx := range txs {
		if err := l.Apply(tx); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// FoldConcurrent is like Fold but folds distinct positions on up to
// 'workers' goroutines. Positions share no state, so the result is the
// same as Fold's, including key and diagnostic order.
func FoldConcurrent(ctx context.Context, txs []Transaction, workers int) (*Ledger, error) {
	l := NewLedger()

	// Validate and partition by key; order inside a partition is the stream order.
	type entry struct {
		seq int
		tx  Transaction
	}
	var partitions [][]entry
	index := make(map[Key]int)
	for seq, tx := range txs {
		if err := tx.Validate(seq); err != nil {
			return nil, err
		}
		if err := checkOrder(l.last, seq, tx); err != nil {
			return nil, err
		}
		i, ok := index[tx.Key()]
		if !ok {
			i = len(partitions)
			index[tx.Key()] = i
			partitions = append(partitions, nil)
			l.position(tx)
		}
		partitions[i] = append(partitions[i], entry{seq, tx})
	}
	l.applied = len(txs)

	found := make([][]Diagnostic, len(partitions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, part := range partitions {
		p := l.positions[l.keys[i]]
		g.Go(func() error {
			for _, e := range part {
				if err := ctx.Err(); err != nil {
					return err
				}
				if d := p.apply(e.seq, e.tx); d != nil {
					found[i] = append(found[i], *d)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, ds := range found {
		l.diagnostics = append(l.diagnostics, ds...)
	}
	slices.SortFunc(l.diagnostics, func(a, b Diagnostic) int { return cmp.Compare(a.Seq, b.Seq) })
	return l, nil
}
