// Package cmd implements the ff command line application: it reads a
// mutual fund statement, folds it into FIFO lots and reports on it.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/fundfolio"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander, cfg *Config) {
	c.Register(&reportCmd{cfg: cfg}, "portfolio")
	c.Register(&holdingsCmd{cfg: cfg}, "portfolio")
	c.Register(&checkCmd{cfg: cfg}, "portfolio")
}

// DecodeTransactions reads the statement file and returns its transactions in trade order.
func DecodeTransactions(cfg *Config) ([]fundfolio.Transaction, error) {
	f, err := os.Open(cfg.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := fundfolio.DecodeStatement(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode %q: %w", cfg.File, err)
	}
	n := fundfolio.Normalizer{Currency: cfg.Currency}
	txs, err := n.Normalize(records)
	if err != nil {
		return nil, fmt.Errorf("invalid statement %q: %w", cfg.File, err)
	}
	log.Debug().Str("file", cfg.File).Int("transactions", len(txs)).Msg("statement loaded")
	return txs, nil
}

// DecodeLedger reads the statement file and folds it.
func DecodeLedger(ctx context.Context, cfg *Config) (*fundfolio.Ledger, error) {
	txs, err := DecodeTransactions(cfg)
	if err != nil {
		return nil, err
	}
	return fundfolio.FoldConcurrent(ctx, txs, cfg.Workers)
}

// logDiagnostics reports every diagnostic as a warning.
func logDiagnostics(ds []fundfolio.Diagnostic) {
	for _, d := range ds {
		ev := log.Warn().
			Str("kind", d.Kind.String()).
			Str("folio", d.Key.Account).
			Str("isin", d.Key.Instrument).
			Stringer("date", d.Date)
		switch d.Kind {
		case fundfolio.Oversell:
			ev = ev.Stringer("unfilled", d.Unfilled)
		case fundfolio.PriceUnavailable:
			ev = ev.AnErr("cause", d.Cause)
		}
		ev.Msg(d.Name)
	}
}

// exitStatus is the status of a command that completed with ds diagnostics.
func exitStatus(ds []fundfolio.Diagnostic, strict bool) subcommands.ExitStatus {
	if strict && len(ds) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders markdown for the terminal, or prints it raw if that fails.
func printMarkdown(w io.Writer, md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(w, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(w, md)
		return
	}
	fmt.Fprint(w, out)
}
