package fundfolio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/fundfolio/date"
	"golang.org/x/sync/errgroup"
)

// DefaultLookback is the number of days a price may lag the valuation date,
// long enough to cover weekends and holidays.
const DefaultLookback = 10

// ValuationResult is the valuation of one position.
type ValuationResult struct {
	Key   Key
	Name  string
	Units Quantity
	// Available is false when no price was found; Price, Value and Gain are then zero.
	Available bool
	PriceDate date.Date
	Price     Money
	Value     Money
	BuyCost   Money
	Gain      Money // Value - BuyCost
}

// Valuation is the valuation of every position of a ledger.
type Valuation struct {
	AsOf       date.Date
	Currency   string
	Results    []ValuationResult // in ledger position order
	TotalValue Money             // sum of available values
	TotalGain  Money             // sum of available gains
	// Diagnostics holds the ledger oversells followed by missing prices.
	Diagnostics []Diagnostic
}

// Valuator values ledger positions with prices from a PriceSource.
type Valuator struct {
	Source   PriceSource
	Currency string // reporting currency
	Lookback int    // days, DefaultLookback when zero
	// Timeout bounds each price lookup. Zero means no bound.
	Timeout time.Duration
	// Workers is the number of concurrent price lookups, 1 when zero.
	Workers int
	// Now returns the valuation date, date.Today when nil.
	Now func() date.Date
}

// Value values every position of the ledger.
//
// A position whose price cannot be obtained is still reported, marked
// unavailable, excluded from the totals, and recorded as a PriceUnavailable
// diagnostic. If ctx is cancelled, positions not yet priced are reported
// that way too.
func (v *Valuator) Value(ctx context.Context, l *Ledger) (*Valuation, error) {
	if v.Source == nil {
		return nil, errors.New("valuator has no price source")
	}
	if v.Lookback < 0 {
		return nil, fmt.Errorf("invalid lookback %d", v.Lookback)
	}
	lookback := v.Lookback
	if lookback == 0 {
		lookback = DefaultLookback
	}
	asOf := date.Today()
	if v.Now != nil {
		asOf = v.Now()
	}

	positions := make([]*Position, 0, l.Len())
	for p := range l.Positions() {
		positions = append(positions, p)
	}

	// Each lookup writes its own slot.
	quotes := make([]Quote, len(positions))
	failures := make([]error, len(positions))

	var g errgroup.Group
	g.SetLimit(max(v.Workers, 1))
	for i, p := range positions {
		g.Go(func() error {
			quotes[i], failures[i] = v.lookup(ctx, p.Key().Instrument, asOf, lookback)
			return nil
		})
	}
	_ = g.Wait() // lookups report through failures, never through the group

	val := &Valuation{
		AsOf:        asOf,
		Currency:    v.Currency,
		TotalValue:  M(0, v.Currency),
		TotalGain:   M(0, v.Currency),
		Diagnostics: l.Diagnostics(),
	}
	for i, p := range positions {
		res := ValuationResult{
			Key:     p.Key(),
			Name:    p.Name(),
			Units:   p.Units(),
			BuyCost: p.BuyCost().In(v.Currency),
		}
		if err := failures[i]; err != nil {
			val.Diagnostics = append(val.Diagnostics, Diagnostic{
				Kind:  PriceUnavailable,
				Key:   p.Key(),
				Name:  p.Name(),
				Date:  asOf,
				Seq:   -1,
				Cause: err,
			})
			val.Results = append(val.Results, res)
			continue
		}
		res.Available = true
		res.PriceDate = quotes[i].Date
		res.Price = M(quotes[i].Price, v.Currency)
		res.Value = res.Price.Mul(res.Units)
		res.Gain = res.Value.Sub(res.BuyCost)
		val.TotalValue = val.TotalValue.Add(res.Value)
		val.TotalGain = val.TotalGain.Add(res.Gain)
		val.Results = append(val.Results, res)
	}
	return val, nil
}

// lookup fetches one price, bounded by the timeout.
//
// A source that ignores ctx is abandoned when the timeout fires.
func (v *Valuator) lookup(ctx context.Context, instrument string, asOf date.Date, lookback int) (Quote, error) {
	if err := ctx.Err(); err != nil {
		return Quote{}, err
	}
	if v.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.Timeout)
		defer cancel()
	}

	type answer struct {
		q   Quote
		err error
	}
	ch := make(chan answer, 1)
	go func() {
		q, err := v.Source.LatestPrice(ctx, instrument, asOf, lookback)
		ch <- answer{q, err}
	}()

	var a answer
	select {
	case a = <-ch:
	case <-ctx.Done():
		return Quote{}, ctx.Err()
	}
	if a.err != nil {
		return Quote{}, a.err
	}
	if r := date.Lookback(asOf, lookback); !r.Contains(a.q.Date) {
		return Quote{}, fmt.Errorf("quote of %s outside %s: %w", a.q.Date, r, ErrNotFound)
	}
	if a.q.Price.IsNegative() {
		return Quote{}, fmt.Errorf("negative price %s", a.q.Price)
	}
	return a.q, nil
}
