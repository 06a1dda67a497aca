package yahoo

import (
	"fmt"

	"github.com/etnz/fundfolio"
	"github.com/wnjoon/go-yfinance/pkg/lookup"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

// LookupSymbol resolves an ISIN into a Yahoo symbol with the lookup API.
func LookupSymbol(isin string) (string, error) {
	lc, err := lookup.New(isin)
	if err != nil {
		return "", fmt.Errorf("cannot create lookup of %s: %w", isin, err)
	}
	defer lc.Close()

	results, err := lc.Stock(1)
	if err != nil {
		return "", fmt.Errorf("cannot lookup %s: %w", isin, err)
	}
	if len(results) == 0 || results[0].Symbol == "" {
		return "", fmt.Errorf("no yahoo symbol for isin %s: %w", isin, fundfolio.ErrNotFound)
	}
	return results[0].Symbol, nil
}

// DailyHistory returns the unadjusted daily bars of symbol over period.
func DailyHistory(symbol, period string) ([]models.Bar, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("cannot create ticker %s: %w", symbol, err)
	}
	defer t.Close()

	return t.History(models.HistoryParams{
		Period:   period,
		Interval: "1d",
	})
}
