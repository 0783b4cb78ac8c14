package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/StockwatchDev/stockwatch"
	"github.com/StockwatchDev/stockwatch/date"
	"github.com/StockwatchDev/stockwatch/degiro"
	"github.com/StockwatchDev/stockwatch/renderer"
	"github.com/google/subcommands"
)

// indicesCmd holds the flags for the 'indices' subcommand.
type indicesCmd struct {
	dirFlag
}

func (*indicesCmd) Name() string     { return "indices" }
func (*indicesCmd) Synopsis() string { return "compare the portfolio against reference indices" }
func (*indicesCmd) Usage() string {
	return `sw indices [-d <dir>]

  Replays the portfolio's cash flows against each reference index in the
  indices folder, and displays what the same investment would have returned.
`
}

func (c *indicesCmd) SetFlags(f *flag.FlagSet) {
	c.dirFlag.setFlags(f)
}

func (c *indicesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	dir, err := c.resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	portfolios, transactions, err := loadReconciled(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	prices, err := degiro.LoadIndexPrices(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(prices) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no index files found in %s\n", dir.IndicesFolder())
		return subcommands.ExitFailure
	}

	dates := make([]date.Date, 0, len(portfolios))
	for _, p := range portfolios {
		dates = append(dates, p.Date())
	}
	indices := stockwatch.IndexPositions(prices, transactions, dates)

	printMarkdown(renderer.IndicesMarkdown(portfolios, indices))
	return subcommands.ExitSuccess
}
