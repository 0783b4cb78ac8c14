package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/StockwatchDev/stockwatch/cmd"
	"github.com/StockwatchDev/stockwatch/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion runs first: when invoked by the shell's completion
	// hook this call prints candidates and exits.
	completion().Complete("sw")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	dirFlags := map[string]complete.Predictor{
		"d": predict.Dirs("*"),
	}
	reportFlags := map[string]complete.Predictor{
		"d":    predict.Dirs("*"),
		"date": predict.Nothing,
	}
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"summary":   {Flags: reportFlags},
			"positions": {Flags: reportFlags},
			"history":   {Flags: dirFlags},
			"indices":   {Flags: dirFlags},
			"fetch": {Flags: map[string]complete.Predictor{
				"d":       predict.Dirs("*"),
				"from":    predict.Nothing,
				"to":      predict.Nothing,
				"goauth":  predict.Nothing,
				"session": predict.Nothing,
				"account": predict.Nothing,
			}},
			"topic": {Args: predict.Set(append([]string{"all"}, docs.Names()...))},
		},
	}
}
