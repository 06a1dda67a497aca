package tradegate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/date"
	"github.com/shopspring/decimal"
)

func TestClient_LatestPrice(t *testing.T) {
	quotes := map[string]string{
		"LAST":   `{"last": 12.5, "bid": 12.4}`,
		"COMMA":  `{"last": "1.234,56", "bid": 0}`,
		"BID":    `{"last": "./.", "bid": "98,7"}`,
		"EMPTY":  `{"last": "./.", "bid": 0, "bidsize": 0}`,
		"NOLAST": `{"bid": 5}`,
		"ZERO":   `{"last": 0}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q, ok := quotes[r.URL.Query().Get("isin")]
		if !ok || r.URL.Path != "/refresh.php" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, q)
	}))
	defer srv.Close()

	today := date.New(2024, time.March, 8)
	c := &Client{BaseURL: srv.URL, HTTP: srv.Client(), Now: func() date.Date { return today }}

	tests := []struct {
		isin  string
		want  string
		isErr error
	}{
		{isin: "LAST", want: "12.5"},
		{isin: "COMMA", want: "1234.56"},
		{isin: "BID", want: "98.7"},
		{isin: "EMPTY", isErr: fundfolio.ErrNotFound},
		{isin: "NOLAST", isErr: fundfolio.ErrNotFound},
		{isin: "ZERO", isErr: fundfolio.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.isin, func(t *testing.T) {
			q, err := c.LatestPrice(context.Background(), tt.isin, today, 10)
			if tt.isErr != nil {
				if !errors.Is(err, tt.isErr) {
					t.Errorf("LatestPrice() error = %v, want %v", err, tt.isErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LatestPrice() unexpected error: %v", err)
			}
			if !q.Price.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("LatestPrice() price = %v, want %v", q.Price, tt.want)
			}
			if q.Date != today {
				t.Errorf("LatestPrice() date = %v, want %v", q.Date, today)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := c.LatestPrice(context.Background(), "UNKNOWN", today, 10)
		if err == nil {
			t.Error("LatestPrice() expected an error")
		}
	})
}

func TestClient_LatestPrice_PastValuation(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		fmt.Fprint(w, `{"last": 1}`)
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, HTTP: srv.Client(), Now: func() date.Date { return date.New(2024, time.March, 8) }}
	_, err := c.LatestPrice(context.Background(), "ANY", date.New(2024, time.January, 31), 10)
	if !errors.Is(err, fundfolio.ErrNotFound) {
		t.Errorf("LatestPrice() error = %v, want %v", err, fundfolio.ErrNotFound)
	}
	if called {
		t.Error("LatestPrice() queried tradegate for a past valuation")
	}
}
