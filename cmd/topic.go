package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/StockwatchDev/stockwatch/docs"
	"github.com/google/subcommands"
)

// topicCmd renders pages of the embedded user guide.
type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show a page of the user guide" }
func (*topicCmd) Usage() string {
	return `sw topic [<name> ...]

  Shows the named guide topics. Without arguments the topic list is
  shown; 'sw topic all' prints the whole guide.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var pages []string
	for _, name := range resolveTopics(f.Args()) {
		page, err := docs.Topic(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		pages = append(pages, page)
	}
	printMarkdown(strings.Join(pages, "\n"))
	return subcommands.ExitSuccess
}

// resolveTopics maps the command arguments to topic names: no arguments
// means the index page, the single argument "all" means every topic.
func resolveTopics(args []string) []string {
	switch {
	case len(args) == 0:
		return []string{docs.Index}
	case len(args) == 1 && args[0] == "all":
		return docs.Names()
	}
	return args
}
