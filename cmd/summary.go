package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/StockwatchDev/stockwatch"
	"github.com/StockwatchDev/stockwatch/date"
	"github.com/StockwatchDev/stockwatch/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	dirFlag
	date string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display portfolio totals on a date" }
func (*summaryCmd) Usage() string {
	return `sw summary [-d <dir>] [-date <date>]

  Displays value, investment, and realized results of the portfolio on the
  closest snapshot on or after the given date (latest snapshot by default).
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	c.dirFlag.setFlags(f)
	f.StringVar(&c.date, "date", "", "date of the snapshot to summarize (YYYY-MM-DD)")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, status := pickPortfolio(&c.dirFlag, c.date)
	if status != subcommands.ExitSuccess {
		return status
	}
	printMarkdown(renderer.SummaryMarkdown(p))
	return subcommands.ExitSuccess
}

// pickPortfolio loads the reconciled portfolios and selects one by date,
// the latest when no date is given.
func pickPortfolio(d *dirFlag, dateArg string) (stockwatch.Portfolio, subcommands.ExitStatus) {
	dir, err := d.resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return stockwatch.Portfolio{}, subcommands.ExitUsageError
	}
	portfolios, _, err := loadReconciled(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return stockwatch.Portfolio{}, subcommands.ExitFailure
	}

	if dateArg == "" {
		return portfolios[len(portfolios)-1], subcommands.ExitSuccess
	}
	on, err := date.Parse(dateArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return stockwatch.Portfolio{}, subcommands.ExitUsageError
	}
	p, ok := stockwatch.ClosestAfter(portfolios, on)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no snapshot on or after %s\n", on)
		return stockwatch.Portfolio{}, subcommands.ExitFailure
	}
	return p, subcommands.ExitSuccess
}
