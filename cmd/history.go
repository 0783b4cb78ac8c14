package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/StockwatchDev/stockwatch/renderer"
	"github.com/google/subcommands"
)

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	dirFlag
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display portfolio totals over all snapshot dates" }
func (*historyCmd) Usage() string {
	return `sw history [-d <dir>]

  Displays value, investment, and realized results for every snapshot date.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	c.dirFlag.setFlags(f)
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	dir, err := c.resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	portfolios, _, err := loadReconciled(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HistoryMarkdown(portfolios))
	return subcommands.ExitSuccess
}
