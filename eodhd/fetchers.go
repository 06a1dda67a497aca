package eodhd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/date"
	"github.com/shopspring/decimal"
)

// fetchCloses returns the daily close prices of an EODHD ticker ("SYMBOL.EXCHANGE") in r.
func (c *Client) fetchCloses(ctx context.Context, ticker string, r date.Range) (*date.History[decimal.Decimal], error) {
	// https://eodhd.com/api/eod/NVD.F?api_token=demo&fmt=json&from=2024-02-01&to=2024-02-13
	// [
	//
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	  },
	// bounds are included in the response.
	addr := fmt.Sprintf("%s/eod/%s?fmt=json&api_token=%s&from=%s&to=%s", c.baseURL(), url.PathEscape(ticker), url.QueryEscape(c.APIKey), r.From, r.To)
	type Info struct {
		Date  date.Date       `json:"date"`
		Close decimal.Decimal `json:"close"`
	}

	// that's the payload
	content := make([]Info, 0)
	if err := jwget(ctx, c.client(), addr, &content); err != nil {
		return nil, fmt.Errorf("cannot fetch prices of %s: %w", ticker, err)
	}

	closes := new(date.History[decimal.Decimal])
	for _, info := range content {
		closes.Append(info.Date, info.Close)
	}
	return closes, nil
}

// LatestPrice implements fundfolio.PriceSource with the last close in the lookback window.
func (c *Client) LatestPrice(ctx context.Context, isin string, asOf date.Date, lookback int) (fundfolio.Quote, error) {
	ticker, err := c.ticker(ctx, isin)
	if err != nil {
		return fundfolio.Quote{}, err
	}
	r := date.Lookback(asOf, lookback)
	closes, err := c.fetchCloses(ctx, ticker, r)
	if err != nil {
		return fundfolio.Quote{}, err
	}
	on, price, ok := closes.LatestWithin(r)
	if !ok {
		return fundfolio.Quote{}, fmt.Errorf("%s (%s) in %s: %w", isin, ticker, r, fundfolio.ErrNotFound)
	}
	return fundfolio.Quote{Date: on, Price: price}, nil
}
