package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/StockwatchDev/stockwatch/date"
	"github.com/StockwatchDev/stockwatch/degiro"
	"github.com/google/subcommands"
)

// fetchCmd holds the flags for the 'fetch' subcommand.
type fetchCmd struct {
	dirFlag
	from    string
	to      string
	goauth  string
	session string
	account int
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "download position snapshots and the account report" }
func (*fetchCmd) Usage() string {
	return `sw fetch [-d <dir>] [-from <date>] [-to <date>] [-goauth <code>]
         [-session <id> -account <number>]

  Downloads one position snapshot per day in the range plus the account
  report covering it, skipping days already on disk. Logs in with the
  credentials from the environment, unless an existing session is passed.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	c.dirFlag.setFlags(f)
	f.StringVar(&c.from, "from", "", "first day to download (defaults to the oldest snapshot on disk)")
	f.StringVar(&c.to, "to", date.Today().String(), "last day to download")
	f.StringVar(&c.goauth, "goauth", "", "one time password from the authenticator app")
	f.StringVar(&c.session, "session", "", "reuse an existing session id instead of logging in")
	f.IntVar(&c.account, "account", 0, "account number belonging to -session")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	dir, err := c.resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	start, end, status := c.dateRange(dir)
	if status != subcommands.ExitSuccess {
		return status
	}

	session, status := c.openSession()
	if status != subcommands.ExitSuccess {
		return status
	}

	var worker degiro.Worker
	worker.Start(degiro.ImportJob{
		Session: session,
		Start:   start,
		End:     end,
		Dir:     dir,
	})
	for !worker.Finished() {
		fmt.Fprintf(os.Stderr, "\rFetching %s (%d%%)", worker.CurrentDate(), worker.Progress())
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Fprintf(os.Stderr, "\rFetched %s through %s.\n", start, worker.EndDate())
	return subcommands.ExitSuccess
}

// dateRange resolves the -from/-to flags, defaulting the start to the
// oldest snapshot already on disk.
func (c *fetchCmd) dateRange(dir degiro.Dir) (start, end date.Date, status subcommands.ExitStatus) {
	if c.from == "" {
		first, ok := dir.FirstPortfolioDate()
		if !ok {
			fmt.Fprintln(os.Stderr, "Error: no snapshots on disk, pass -from explicitly")
			return start, end, subcommands.ExitUsageError
		}
		start = first
	} else {
		var err error
		if start, err = date.Parse(c.from); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -from: %v\n", err)
			return start, end, subcommands.ExitUsageError
		}
	}
	end, err := date.Parse(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -to: %v\n", err)
		return start, end, subcommands.ExitUsageError
	}
	if !start.Before(end) {
		fmt.Fprintf(os.Stderr, "Error: -from %s is not before -to %s\n", start, end)
		return start, end, subcommands.ExitUsageError
	}
	return start, end, subcommands.ExitSuccess
}

// openSession reuses the session passed on the command line or logs in
// with the environment credentials.
func (c *fetchCmd) openSession() (degiro.Session, subcommands.ExitStatus) {
	if c.session != "" {
		session := degiro.Session{Account: c.account, SessionID: c.session}
		if !session.Valid() {
			fmt.Fprintln(os.Stderr, "Error: -session or -account is not valid")
			return degiro.Session{}, subcommands.ExitUsageError
		}
		return session, subcommands.ExitSuccess
	}

	credentials, err := degiro.LoadCredentials()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return degiro.Session{}, subcommands.ExitUsageError
	}
	session, err := degiro.NewSession(credentials, c.goauth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error logging in: %v\n", err)
		return degiro.Session{}, subcommands.ExitFailure
	}
	return session, subcommands.ExitSuccess
}
