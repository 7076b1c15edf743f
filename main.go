package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/tally-ledger/backend/internal/cli"
	"github.com/tally-ledger/backend/pkg/config"
	"github.com/tally-ledger/backend/pkg/router"
)

var commands struct {
	Version kong.VersionFlag `help:"Show version information"`
	cli.Commands
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := kong.Parse(&commands,
		kong.Vars{
			"version": router.Version(),
		},
		kong.Name("tally"),
		kong.Description("The backend for Tally, a personal income and expense ledger."),
		kong.UsageOnError(),
		kong.Bind(cfg),
	)

	ctx.FatalIfErrorf(cfg.Validate())
	cli.SetupLogging(cfg)

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
