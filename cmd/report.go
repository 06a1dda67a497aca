package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/fundfolio/date"
	"github.com/etnz/fundfolio/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	cfg      *Config
	date     string
	markdown bool
	strict   bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "value the remaining units of every fund" }
func (*reportCmd) Usage() string {
	return `ff report [-d <date>] [-md] [-strict]

  Reads the statement, matches sells against the oldest purchases first
  and values the remaining units with the latest price not older than
  -lookback days.

  The gain of a fund is its current value minus the cost of every
  purchase ever made. A fund without price is reported as "n/a" and left
  out of the totals.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Valuation date (YYYY-MM-DD), today by default")
	f.BoolVar(&c.markdown, "md", false, "render the report as markdown")
	f.BoolVar(&c.strict, "strict", false, "exit with failure if there is any diagnostic")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, os.Stdout)
}

func (c *reportCmd) run(ctx context.Context, w io.Writer) subcommands.ExitStatus {
	if err := c.cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	on := date.Today()
	if c.date != "" {
		var err error
		if on, err = date.Parse(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	ledger, err := DecodeLedger(ctx, c.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	valuator, err := c.cfg.Valuator()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening price source: %v\n", err)
		return subcommands.ExitFailure
	}
	valuator.Now = func() date.Date { return on }

	log.Debug().Str("source", c.cfg.Source).Stringer("date", on).Int("positions", ledger.Len()).Msg("valuing")
	valuation, err := valuator.Value(ctx, ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error valuing portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	logDiagnostics(valuation.Diagnostics)

	if c.markdown {
		printMarkdown(w, renderer.ReportMarkdown(valuation))
	} else if err := renderer.Report(w, valuation); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return subcommands.ExitFailure
	}
	return exitStatus(valuation.Diagnostics, c.strict)
}
