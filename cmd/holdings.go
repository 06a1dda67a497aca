package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/fundfolio/renderer"
	"github.com/google/subcommands"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	cfg    *Config
	strict bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "list the open lots of every fund" }
func (*holdingsCmd) Usage() string {
	return `ff holdings [-strict]

  Lists, for every fund, the purchases that are not sold yet, oldest
  first, with their remaining units and unit cost. No price is needed.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.strict, "strict", false, "exit with failure if there is any diagnostic")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, os.Stdout)
}

func (c *holdingsCmd) run(ctx context.Context, w io.Writer) subcommands.ExitStatus {
	if err := c.cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	ledger, err := DecodeLedger(ctx, c.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}
	logDiagnostics(ledger.Diagnostics())
	printMarkdown(w, renderer.HoldingsMarkdown(ledger))
	return exitStatus(ledger.Diagnostics(), c.strict)
}
