package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/etnz/fundfolio"
)

// SearchResult matches the structure of a single item in the EODHD search API response.
type SearchResult struct {
	Code     string `json:"Code"`
	Exchange string `json:"Exchange"`
	Name     string `json:"Name"`
	Type     string `json:"Type"`
	Country  string `json:"Country"`
	Currency string `json:"Currency"`
	ISIN     string `json:"ISIN"`
}

// Ticker returns the EODHD ticker "CODE.EXCHANGE".
func (r SearchResult) Ticker() string { return r.Code + "." + r.Exchange }

// Search searches for securities via EOD Historical Data API.
func (c *Client) Search(ctx context.Context, searchTerm string) ([]SearchResult, error) {
	// https://eodhd.com/api/search/US67066G1040?api_token=demo&fmt=json
	// [
	//   {
	//     "Code": "NVDA",
	//     "Exchange": "US",
	//     "Name": "NVIDIA Corporation",
	//     "Type": "Common Stock",
	//     "Country": "USA",
	//     "Currency": "USD",
	//     "ISIN": "US67066G1040",
	//     "previousClose": 131.14,
	//     "previousCloseDate": "2025-02-12"
	//   },
	addr := fmt.Sprintf("%s/search/%s?api_token=%s&fmt=json", c.baseURL(), url.PathEscape(searchTerm), url.QueryEscape(c.APIKey))

	var results []SearchResult
	if err := jwget(ctx, c.client(), addr, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// ticker resolves an ISIN into an EODHD ticker, funds first.
func (c *Client) ticker(ctx context.Context, isin string) (string, error) {
	c.mu.Lock()
	t, ok := c.tickers[isin]
	c.mu.Unlock()
	if ok {
		return t, nil
	}

	results, err := c.Search(ctx, isin)
	if err != nil {
		return "", err
	}
	var best *SearchResult
	for i, r := range results {
		if !strings.EqualFold(r.ISIN, isin) {
			continue
		}
		if best == nil || (isFund(r) && !isFund(*best)) {
			best = &results[i]
		}
	}
	if best == nil {
		return "", fmt.Errorf("no eodhd ticker for isin %s: %w", isin, fundfolio.ErrNotFound)
	}

	c.mu.Lock()
	if c.tickers == nil {
		c.tickers = make(map[string]string)
	}
	c.tickers[isin] = best.Ticker()
	c.mu.Unlock()
	return best.Ticker(), nil
}

func isFund(r SearchResult) bool { return strings.EqualFold(r.Type, "FUND") }
