// Package yahoo provides prices from Yahoo Finance, through go-yfinance.
package yahoo

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/date"
	"github.com/shopspring/decimal"
	"github.com/wnjoon/go-yfinance/pkg/models"
)

// Client is a fundfolio.PriceSource backed by Yahoo Finance.
// It is safe for concurrent use.
//
// go-yfinance calls take no context: LatestPrice returns on ctx
// cancellation and leaves the pending call to finish in the background.
type Client struct {
	// Symbol resolves an ISIN into a Yahoo symbol, LookupSymbol when nil.
	Symbol func(isin string) (string, error)
	// History returns the daily bars of a symbol over a Yahoo period
	// ("5d", "1mo", ...), DailyHistory when nil.
	History func(symbol, period string) ([]models.Bar, error)
	// Today anchors the history period, date.Today when nil.
	Today func() date.Date

	mu      sync.Mutex
	symbols map[string]string // isin -> symbol
}

var _ fundfolio.PriceSource = (*Client)(nil)

// New returns a client on the Yahoo Finance APIs.
func New() *Client {
	return &Client{Symbol: LookupSymbol, History: DailyHistory, Today: date.Today, symbols: make(map[string]string)}
}

// LatestPrice implements fundfolio.PriceSource with the last close in the lookback window.
func (c *Client) LatestPrice(ctx context.Context, isin string, asOf date.Date, lookback int) (fundfolio.Quote, error) {
	if err := ctx.Err(); err != nil {
		return fundfolio.Quote{}, err
	}
	type result struct {
		q   fundfolio.Quote
		err error
	}
	done := make(chan result, 1)
	go func() {
		q, err := c.latest(isin, date.Lookback(asOf, lookback))
		done <- result{q, err}
	}()
	select {
	case <-ctx.Done():
		return fundfolio.Quote{}, ctx.Err()
	case res := <-done:
		return res.q, res.err
	}
}

func (c *Client) latest(isin string, r date.Range) (fundfolio.Quote, error) {
	symbol, err := c.symbol(isin)
	if err != nil {
		return fundfolio.Quote{}, err
	}
	closes, err := c.closes(symbol, r)
	if err != nil {
		return fundfolio.Quote{}, err
	}
	on, price, ok := closes.LatestWithin(r)
	if !ok {
		return fundfolio.Quote{}, fmt.Errorf("%s (%s) in %s: %w", isin, symbol, r, fundfolio.ErrNotFound)
	}
	return fundfolio.Quote{Date: on, Price: price}, nil
}

// symbol resolves an ISIN once per client.
func (c *Client) symbol(isin string) (string, error) {
	c.mu.Lock()
	s, ok := c.symbols[isin]
	c.mu.Unlock()
	if ok {
		return s, nil
	}

	resolve := c.Symbol
	if resolve == nil {
		resolve = LookupSymbol
	}
	s, err := resolve(isin)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	if c.symbols == nil {
		c.symbols = make(map[string]string)
	}
	c.symbols[isin] = s
	c.mu.Unlock()
	return s, nil
}

// closes returns the daily closes of symbol covering r.
func (c *Client) closes(symbol string, r date.Range) (*date.History[decimal.Decimal], error) {
	history, today := c.History, c.Today
	if history == nil {
		history = DailyHistory
	}
	if today == nil {
		today = date.Today
	}
	bars, err := history(symbol, period(today(), r.From))
	if err != nil {
		return nil, fmt.Errorf("cannot fetch prices of %s: %w", symbol, err)
	}

	closes := new(date.History[decimal.Decimal])
	for _, bar := range bars {
		// Yahoo pads days without a quote with NaN or zero.
		if math.IsNaN(bar.Close) || math.IsInf(bar.Close, 0) || bar.Close <= 0 {
			continue
		}
		closes.Append(date.Of(bar.Date), decimal.NewFromFloat(bar.Close))
	}
	return closes, nil
}

// periods are the Yahoo history periods, shortest first, with the days they cover.
var periods = []struct {
	days int
	name string
}{
	{5, "5d"},
	{28, "1mo"},
	{89, "3mo"},
	{180, "6mo"},
	{365, "1y"},
	{730, "2y"},
	{1826, "5y"},
	{3652, "10y"},
}

// period returns the shortest Yahoo period, ending today, that reaches back to from.
func period(today, from date.Date) string {
	days := today.Sub(from) + 1
	for _, p := range periods {
		if days <= p.days {
			return p.name
		}
	}
	return "max"
}
