// Command ff values a mutual fund portfolio from its transaction statement.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/etnz/fundfolio/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.Completion().Complete("ff")

	cfg := cmd.Load()
	cfg.SetFlags(flag.CommandLine)

	commander := subcommands.NewCommander(flag.CommandLine, "ff")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander, cfg)

	flag.Parse()
	cmd.SetGlobalLogger(cmd.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}
