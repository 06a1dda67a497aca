// Package tradegate provides live quotes from the Tradegate exchange.
//
// Tradegate only publishes the current quote, so the Client can price a
// valuation only when the current day falls in the lookback window.
package tradegate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/date"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the Tradegate quote endpoint root.
const DefaultBaseURL = "https://www.tradegate.de"

// empty is how Tradegate shows a missing value.
const empty = "./."

// Client is a fundfolio.PriceSource reading the latest Tradegate quote.
type Client struct {
	BaseURL string       // DefaultBaseURL when empty
	HTTP    *http.Client // http.DefaultClient when nil
	// Now returns the day quotes are attributed to, date.Today when nil.
	Now func() date.Date
}

var _ fundfolio.PriceSource = (*Client)(nil)

// LatestPrice implements fundfolio.PriceSource.
func (c *Client) LatestPrice(ctx context.Context, isin string, asOf date.Date, lookback int) (fundfolio.Quote, error) {
	today := date.Today()
	if c.Now != nil {
		today = c.Now()
	}
	if r := date.Lookback(asOf, lookback); !r.Contains(today) {
		return fundfolio.Quote{}, fmt.Errorf("tradegate has no quote of %s in %s: %w", isin, r, fundfolio.ErrNotFound)
	}
	price, err := c.latest(ctx, isin)
	if err != nil {
		return fundfolio.Quote{}, err
	}
	return fundfolio.Quote{Date: today, Price: price}, nil
}

// latest returns the last traded price, or the bid when nothing traded.
func (c *Client) latest(ctx context.Context, isin string) (decimal.Decimal, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	addr := base + "/refresh.php?isin=" + url.QueryEscape(isin)

	var jobj any
	if err := c.get(ctx, addr, &jobj); err != nil {
		return decimal.Zero, fmt.Errorf("error retrieving %q: %w", isin, err)
	}

	// last is the last transaction, moves slower than the bid, but the bid can be 0.
	jval, err := jsonpath.Get("$.last", jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: no last price: %w", isin, fundfolio.ErrNotFound)
	}
	if s, ok := jval.(string); ok && strings.TrimSpace(s) == empty {
		log.Debug().Str("isin", isin).Msg("'last' is empty, falling back to 'bid'")
		if jval, err = jsonpath.Get("$.bid", jobj); err != nil {
			return decimal.Zero, fmt.Errorf("%s: no bid price: %w", isin, fundfolio.ErrNotFound)
		}
	}

	val, err := parseValue(jval)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot read value of %q: %w", isin, err)
	}
	if val.IsZero() {
		// sometimes the bid is empty and returns 0
		return decimal.Zero, fmt.Errorf("empty quote for %s: %w", isin, fundfolio.ErrNotFound)
	}
	return val, nil
}

// parseValue reads a number that this API returns either as a JSON number
// or as a string with a decimal comma, like "1 234,5".
func parseValue(jval any) (decimal.Decimal, error) {
	switch v := jval.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		s := strings.ReplaceAll(v, " ", "")
		if s == empty || s == "" {
			return decimal.Zero, nil
		}
		if strings.Contains(s, ",") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid string %q: %w", v, err)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("neither a number nor a string: %v", jval)
	}
}

func (c *Client) get(ctx context.Context, addr string, data any) error {
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(data)
}
