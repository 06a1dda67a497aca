// Package eodhd provides prices from the EOD Historical Data API (https://eodhd.com).
package eodhd

import (
	"net/http"
	"sync"

	"github.com/etnz/fundfolio"
)

// DefaultBaseURL is the EODHD API root.
const DefaultBaseURL = "https://eodhd.com/api"

// Client is a fundfolio.PriceSource backed by EODHD.
// It is safe for concurrent use.
type Client struct {
	APIKey  string
	BaseURL string       // DefaultBaseURL when empty
	HTTP    *http.Client // a daily disk caching client when nil

	mu      sync.Mutex
	tickers map[string]string // isin -> ticker
}

var _ fundfolio.PriceSource = (*Client)(nil)

// New returns a client using a daily disk cache.
func New(apiKey string) *Client {
	return &Client{APIKey: apiKey, HTTP: newDailyCachingClient(), tickers: make(map[string]string)}
}

func (c *Client) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

func (c *Client) client() *http.Client {
	if c.HTTP == nil {
		return newDailyCachingClient()
	}
	return c.HTTP
}
