package fundfolio

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/fundfolio/date"
	"github.com/shopspring/decimal"
)

// Quote is a price observed on a given day.
type Quote struct {
	Date  date.Date
	Price decimal.Decimal
}

// PriceSource provides the latest known price of an instrument.
//
// LatestPrice returns the most recent price on or before asOf, and not
// older than 'lookback' days. It returns an error wrapping ErrNotFound when
// there is none. Implementations should honour ctx cancellation.
type PriceSource interface {
	LatestPrice(ctx context.Context, instrument string, asOf date.Date, lookback int) (Quote, error)
}

// PriceSourceFunc adapts a function to the PriceSource interface.
type PriceSourceFunc func(ctx context.Context, instrument string, asOf date.Date, lookback int) (Quote, error)

func (f PriceSourceFunc) LatestPrice(ctx context.Context, instrument string, asOf date.Date, lookback int) (Quote, error) {
	return f(ctx, instrument, asOf, lookback)
}

// Prices is an in-memory PriceSource holding daily price histories.
type Prices struct {
	series map[string]*date.History[decimal.Decimal]
}

// NewPrices returns an empty price table.
func NewPrices() *Prices {
	return &Prices{series: make(map[string]*date.History[decimal.Decimal])}
}

// Append records the price of instrument on a day, overwriting any previous one.
func (p *Prices) Append(instrument string, on date.Date, price decimal.Decimal) *Prices {
	h, ok := p.series[instrument]
	if !ok {
		h = new(date.History[decimal.Decimal])
		p.series[instrument] = h
	}
	h.Append(on, price)
	return p
}

// LatestPrice implements PriceSource.
func (p *Prices) LatestPrice(ctx context.Context, instrument string, asOf date.Date, lookback int) (Quote, error) {
	if err := ctx.Err(); err != nil {
		return Quote{}, err
	}
	h, ok := p.series[instrument]
	if !ok {
		return Quote{}, fmt.Errorf("%s: %w", instrument, ErrNotFound)
	}
	r := date.Lookback(asOf, lookback)
	on, price, ok := h.LatestWithin(r)
	if !ok {
		return Quote{}, fmt.Errorf("%s in %s: %w", instrument, r, ErrNotFound)
	}
	return Quote{Date: on, Price: price}, nil
}

// priceLine is the JSONL representation of a price.
type priceLine struct {
	Instrument string          `json:"isin"`
	Date       date.Date       `json:"date"`
	Price      decimal.Decimal `json:"price"`
}

// DecodePrices reads a JSONL price file, one {"isin","date","price"} object per line.
// Blank lines are ignored.
func DecodePrices(r io.Reader) (*Prices, error) {
	p := NewPrices()
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var pl priceLine
		if err := json.Unmarshal([]byte(line), &pl); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if pl.Instrument == "" {
			return nil, fmt.Errorf("line %d: missing isin", lineNum)
		}
		if pl.Date.IsZero() {
			return nil, fmt.Errorf("line %d: missing date", lineNum)
		}
		if pl.Price.IsNegative() {
			return nil, fmt.Errorf("line %d: negative price %s", lineNum, pl.Price)
		}
		p.Append(pl.Instrument, pl.Date, pl.Price)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p, nil
}
