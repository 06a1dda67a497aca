package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
)

type checkCmd struct {
	cfg *Config
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validate the statement and report oversells" }
func (*checkCmd) Usage() string {
	return `ff check

  Validates every transaction of the statement and matches them against
  each other without pricing. Prints the diagnostics and exits with
  status 1 if there is any.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, os.Stdout)
}

func (c *checkCmd) run(ctx context.Context, w io.Writer) subcommands.ExitStatus {
	if err := c.cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	ledger, err := DecodeLedger(ctx, c.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	ds := ledger.Diagnostics()
	for _, d := range ds {
		fmt.Fprintln(w, d)
	}
	if len(ds) == 0 {
		fmt.Fprintf(w, "%d funds, no diagnostic\n", ledger.Len())
	}
	return exitStatus(ds, true)
}
