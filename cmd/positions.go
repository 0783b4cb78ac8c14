package cmd

import (
	"context"
	"flag"

	"github.com/StockwatchDev/stockwatch/renderer"
	"github.com/google/subcommands"
)

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct {
	dirFlag
	date string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display per-instrument detail on a date" }
func (*positionsCmd) Usage() string {
	return `sw positions [-d <dir>] [-date <date>]

  Displays every position of the portfolio on the closest snapshot on or
  after the given date (latest snapshot by default).
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	c.dirFlag.setFlags(f)
	f.StringVar(&c.date, "date", "", "date of the snapshot to display (YYYY-MM-DD)")
}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, status := pickPortfolio(&c.dirFlag, c.date)
	if status != subcommands.ExitSuccess {
		return status
	}
	printMarkdown(renderer.PositionsMarkdown(p))
	return subcommands.ExitSuccess
}
