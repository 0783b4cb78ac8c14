// Package cmd implements the sw subcommands.
package cmd

import (
	"flag"
	"fmt"

	"github.com/StockwatchDev/stockwatch"
	"github.com/StockwatchDev/stockwatch/degiro"
	"github.com/google/subcommands"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&summaryCmd{}, "reports")
	c.Register(&positionsCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
	c.Register(&indicesCmd{}, "reports")

	c.Register(&fetchCmd{}, "data")

	c.Register(&topicCmd{}, "documentation")
}

// dirFlag is the data directory flag shared by every command that reads
// the stock directory.
type dirFlag struct {
	dir string
}

func (d *dirFlag) setFlags(f *flag.FlagSet) {
	f.StringVar(&d.dir, "d", "", "data directory (defaults to $"+degiro.EnvStockDir+")")
}

func (d *dirFlag) resolve() (degiro.Dir, error) {
	return degiro.ResolveDir(d.dir)
}

// loadReconciled reads all snapshots and the account report from the
// directory and reconciles them into dated portfolios.
func loadReconciled(dir degiro.Dir) ([]stockwatch.Portfolio, []stockwatch.Transaction, error) {
	snapshots, err := degiro.LoadPortfolios(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(snapshots) == 0 {
		return nil, nil, fmt.Errorf("no snapshot files found in %s", dir.PortfolioFolder())
	}

	dict, instruments := stockwatch.BuildSnapshots(snapshots)
	transactions, _, _, err := degiro.LoadAccount(dir, instruments)
	if err != nil {
		return nil, nil, err
	}
	stockwatch.ApplyTransactions(transactions, dict)

	portfolios, err := stockwatch.ToPortfolios(dict)
	if err != nil {
		return nil, nil, err
	}
	return portfolios, transactions, nil
}
