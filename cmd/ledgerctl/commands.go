package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/subcommands"

	"github.com/carson-networks/ledger-sync/internal/app"
	"github.com/carson-networks/ledger-sync/internal/config"
	"github.com/carson-networks/ledger-sync/internal/ledger"
	"github.com/carson-networks/ledger-sync/internal/logging"
	"github.com/carson-networks/ledger-sync/internal/timeboundary"
)

var commands = []subcommands.Command{
	&monthCmd{},
	&summaryCmd{},
	&cacheCmd{},
	&revalidateCmd{},
}

var out io.Writer = os.Stdout

// openApp builds the application from the environment. Logs go to stderr.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return nil, err
	}
	logger := logging.SetupLogging()
	logger.Out = os.Stderr
	if err := logging.SetLevel(logger, cfg.LogLevel); err != nil {
		return nil, err
	}

	a, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		return nil, err
	}
	a.Start()
	return a, nil
}

// monthArg reads the month from the first argument, defaulting to the
// civil month containing now.
func monthArg(f *flag.FlagSet, a *app.App) (timeboundary.MonthKey, error) {
	if f.NArg() == 0 {
		return timeboundary.CivilMonthKey(time.Now(), a.OffsetMinutes()), nil
	}
	return timeboundary.ParseMonthKey(f.Arg(0))
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func printEntries(w io.Writer, items []ledger.Entry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tOCCURRED AT\tSCOPE\tAMOUNT\tSETTLED\tNOTE")
	for _, e := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%t\t%s\n",
			e.ID, e.OccurredAt.Format("2006-01-02 15:04Z07:00"), e.Scope, e.Amount.StringFixed(2), e.Currency, e.Settled, e.Note)
	}
	tw.Flush()
}

type monthCmd struct {
	dump bool
}

func (*monthCmd) Name() string     { return "month" }
func (*monthCmd) Synopsis() string { return "print the entries of a civil month, cache first" }
func (*monthCmd) Usage() string {
	return `ledgerctl month [-dump] [YYYY-MM]

  Prints the entries of the given civil month (default: the current one).
  A cached month is served without contacting the database.
`
}

func (c *monthCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dump, "dump", false, "Dump the full entries instead of a table.")
}

func (c *monthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer closeApp(a)

	month, err := monthArg(f, a)
	if err != nil {
		return fail(err)
	}

	items, err := a.Month(ctx, month)
	if err != nil {
		return fail(err)
	}

	if c.dump {
		spew.Fdump(out, items)
		return subcommands.ExitSuccess
	}
	printEntries(out, items)
	return subcommands.ExitSuccess
}

type summaryCmd struct{}

func (*summaryCmd) Name() string             { return "summary" }
func (*summaryCmd) Synopsis() string         { return "print month totals by scope" }
func (*summaryCmd) Usage() string            { return "ledgerctl summary [YYYY-MM]\n" }
func (*summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer closeApp(a)

	month, err := monthArg(f, a)
	if err != nil {
		return fail(err)
	}

	sum, err := a.Summary(ctx, month)
	if err != nil {
		return fail(err)
	}

	fmt.Fprintf(out, "month:     %s\nentries:   %d\ntotal:     %s\nhousehold: %s\npersonal:  %s\n",
		sum.Month, sum.Count, sum.Total.StringFixed(2), sum.Household.StringFixed(2), sum.Personal.StringFixed(2))
	return subcommands.ExitSuccess
}

type cacheCmd struct {
	clear bool
	dump  bool
}

func (*cacheCmd) Name() string     { return "cache" }
func (*cacheCmd) Synopsis() string { return "list or clear the durable month cache" }
func (*cacheCmd) Usage() string {
	return `ledgerctl cache [-clear] [-dump]

  Lists the months held in the durable cache with their fetch time.
  With -clear every cached month is removed.
`
}

func (c *cacheCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.clear, "clear", false, "Remove every cached month.")
	f.BoolVar(&c.dump, "dump", false, "Dump each cached page.")
}

func (c *cacheCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer closeApp(a)

	if c.clear {
		fmt.Fprintf(out, "removed %d cached months\n", a.Cache.ClearAll(ctx))
		return subcommands.ExitSuccess
	}

	for _, month := range a.Cache.Months(ctx) {
		fetchedAt, _ := a.Cache.FetchedAt(ctx, month)
		items, _ := a.Cache.Get(ctx, month)
		stale := ""
		if a.Cache.IsStale(ctx, month) {
			stale = " (stale)"
		}
		fmt.Fprintf(out, "%s  %3d entries  fetched %s%s\n", month, len(items), fetchedAt.Format("2006-01-02 15:04:05Z07:00"), stale)
		if c.dump {
			spew.Fdump(out, items)
		}
	}
	return subcommands.ExitSuccess
}

type revalidateCmd struct{}

func (*revalidateCmd) Name() string             { return "revalidate" }
func (*revalidateCmd) Synopsis() string         { return "refetch months and overwrite their cache entries" }
func (*revalidateCmd) Usage() string            { return "ledgerctl revalidate YYYY-MM...\n" }
func (*revalidateCmd) SetFlags(f *flag.FlagSet) {}

func (c *revalidateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer closeApp(a)

	for _, arg := range f.Args() {
		month, err := timeboundary.ParseMonthKey(arg)
		if err != nil {
			return fail(err)
		}
		if err := a.Loader.Revalidate(ctx, month); err != nil {
			return fail(err)
		}
		fmt.Fprintf(out, "%s revalidated\n", month)
	}
	return subcommands.ExitSuccess
}
