package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/subcommands"
)

const statement = `{"data": [{"dtTransaction": [
	{"isin": "INF209K01YY7", "folio": "1234567/89", "schemeName": "Liquid Fund", "trxnDate": "05-Mar-2023", "trxnUnits": "-120", "purchasePrice": "15"},
	{"isin": "INF209K01YY7", "folio": "1234567/89", "schemeName": "Liquid Fund", "trxnDate": "01-Mar-2023", "trxnUnits": "100", "purchasePrice": "10"},
	{"isin": "INF846K01EW2", "folio": "7654321/00", "schemeName": "Bluechip Fund", "trxnDate": "2-Mar-2023", "trxnUnits": 25.5, "purchasePrice": 40.25},
	{"isin": "INF209K01YY7", "folio": "1234567/89", "schemeName": "Liquid Fund", "trxnDate": "03-Mar-2023", "trxnUnits": "50", "purchasePrice": "12"}
]}]}`

const prices = `{"isin": "INF209K01YY7", "date": "2023-03-08", "price": "19"}
{"isin": "INF209K01YY7", "date": "2023-03-09", "price": "20"}
`

// setup writes the statement and price files and returns a config using them.
func setup(t *testing.T, statement string) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg := validConfig()
	cfg.File = filepath.Join(dir, "transactions.json")
	cfg.Prices = filepath.Join(dir, "prices.jsonl")
	if err := os.WriteFile(cfg.File, []byte(statement), 0o644); err != nil {
		t.Fatalf("cannot write statement: %v", err)
	}
	if err := os.WriteFile(cfg.Prices, []byte(prices), 0o644); err != nil {
		t.Fatalf("cannot write prices: %v", err)
	}
	return cfg
}

func TestReportCmd(t *testing.T) {
	cfg := setup(t, statement)
	c := &reportCmd{cfg: cfg, date: "2023-03-10"}

	var out bytes.Buffer
	if got := c.run(context.Background(), &out); got != subcommands.ExitSuccess {
		t.Errorf("run() = %v, want %v", got, subcommands.ExitSuccess)
	}
	want := `Total Portfolio Value: 600.00 Rs
Total Portfolio Gain: -1,000.00 Rs
Fund 1:
  Folio            : 1234567/89
  Fund Name        : Liquid Fund
  Remaining Units  : 30.0000
  Current Value    : 600.00 Rs
  Gain             : -1,000.00 Rs
----------------------------------------
Fund 2:
  Folio            : 7654321/00
  Fund Name        : Bluechip Fund
  Remaining Units  : 25.5000
  Current Value    : n/a
  Gain             : n/a
----------------------------------------
`
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	// The missing price fails a strict report.
	c.strict = true
	if got := c.run(context.Background(), new(bytes.Buffer)); got != subcommands.ExitFailure {
		t.Errorf("strict run() = %v, want %v", got, subcommands.ExitFailure)
	}
}

func TestReportCmd_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*reportCmd)
		want   subcommands.ExitStatus
	}{
		{"bad date", func(c *reportCmd) { c.date = "10/03/2023" }, subcommands.ExitUsageError},
		{"bad config", func(c *reportCmd) { c.cfg.Workers = 0 }, subcommands.ExitUsageError},
		{"missing statement", func(c *reportCmd) { c.cfg.File = c.cfg.File + ".missing" }, subcommands.ExitFailure},
		{"missing prices", func(c *reportCmd) { c.cfg.Prices = c.cfg.Prices + ".missing" }, subcommands.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &reportCmd{cfg: setup(t, statement), date: "2023-03-10"}
			tt.mutate(c)
			if got := c.run(context.Background(), new(bytes.Buffer)); got != tt.want {
				t.Errorf("run() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHoldingsCmd(t *testing.T) {
	c := &holdingsCmd{cfg: setup(t, statement)}
	var out bytes.Buffer
	if got := c.run(context.Background(), &out); got != subcommands.ExitSuccess {
		t.Errorf("run() = %v, want %v", got, subcommands.ExitSuccess)
	}
	for _, want := range []string{"Liquid Fund", "Bluechip Fund", "2023-03-03", "30.0000", "25.5000"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("holdings output does not contain %q:\n%s", want, out.String())
		}
	}
}

func TestCheckCmd(t *testing.T) {
	c := &checkCmd{cfg: setup(t, statement)}
	var out bytes.Buffer
	if got := c.run(context.Background(), &out); got != subcommands.ExitSuccess {
		t.Errorf("run() = %v, want %v", got, subcommands.ExitSuccess)
	}
	if want := "2 funds, no diagnostic\n"; out.String() != want {
		t.Errorf("check output = %q, want %q", out.String(), want)
	}

	oversold := strings.Replace(statement, `"-120"`, `"-165"`, 1)
	c = &checkCmd{cfg: setup(t, oversold)}
	out.Reset()
	if got := c.run(context.Background(), &out); got != subcommands.ExitFailure {
		t.Errorf("run() = %v, want %v", got, subcommands.ExitFailure)
	}
	if !strings.Contains(out.String(), "1234567/89/INF209K01YY7") || !strings.Contains(out.String(), "15 units unmatched") {
		t.Errorf("check output = %q, want the oversell of 15 units", out.String())
	}
}

func TestCheckCmd_InvalidStatement(t *testing.T) {
	invalid := strings.Replace(statement, `"05-Mar-2023"`, `"2023/03/05"`, 1)
	c := &checkCmd{cfg: setup(t, invalid)}
	if got := c.run(context.Background(), new(bytes.Buffer)); got != subcommands.ExitFailure {
		t.Errorf("run() = %v, want %v", got, subcommands.ExitFailure)
	}
}

func TestCompletion(t *testing.T) {
	c := Completion()
	for _, name := range []string{"report", "holdings", "check"} {
		if _, ok := c.Sub[name]; !ok {
			t.Errorf("Completion() has no %q subcommand", name)
		}
	}
	if got := c.Flags["source"].Predict(""); len(got) != 4 {
		t.Errorf("source predictions = %v, want 4", got)
	}
}
