package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/longshort"
	"github.com/etnz/longshort/renderer"
	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// watchCmd refreshes the report on a schedule.
type watchCmd struct {
	filterFlags
	schedule string
	quiet    bool
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "refresh the positions on a schedule and report the stops reached" }
func (*watchCmd) Usage() string {
	return `lsdesk watch [-schedule <cron>] [-quiet] [-status all|active|closed] [-advisor <names>] [-client <names>]

  Reads the document again and values it at every tick of the schedule, until interrupted.
  The schedule is a cron expression or a descriptor like "@every 60s". Every operation
  reaching a stop level it had not reached on the previous tick is logged.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.StringVar(&c.schedule, "schedule", "", "Refresh schedule, defaults to the configured one")
	f.BoolVar(&c.quiet, "quiet", false, "Only log the stops reached, do not print the report")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := c.filter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withDesk(ctx, func(d *desk) subcommands.ExitStatus {
		schedule := c.schedule
		if schedule == "" {
			schedule = d.cfg.Refresh.Schedule
		}
		log := d.log.With().Str("component", "watch").Logger()
		w := &watcher{desk: d, filter: filter, quiet: c.quiet, log: log, seen: make(map[longshort.Ref]longshort.Target)}

		cl := cronLogger{log}
		sched := cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl)))
		if _, err := sched.AddFunc(schedule, func() { w.tick(ctx) }); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid schedule %q: %v\n", schedule, err)
			return subcommands.ExitUsageError
		}
		w.tick(ctx)
		sched.Start()
		log.Info().Str("schedule", schedule).Msg("watching")

		<-ctx.Done()
		<-sched.Stop().Done()
		log.Info().Msg("stopped")
		return subcommands.ExitSuccess
	})
}

// watcher runs the passes of watchCmd and remembers the targets of the previous one.
type watcher struct {
	desk   *desk
	filter longshort.Filter
	quiet  bool
	log    zerolog.Logger
	seen   map[longshort.Ref]longshort.Target
}

func (w *watcher) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := w.desk.reload(ctx); err != nil {
		w.log.Error().Err(err).Msg("cannot read the document")
		return
	}
	snap, pass, err := w.desk.evaluate(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("pass failed")
		return
	}
	for _, p := range newHits(w.seen, pass, w.filter) {
		w.log.Info().
			Stringer("ref", p.Ref).
			Str("symbol", p.Operation.Symbol).
			Stringer("target", p.Target).
			Str("price", p.Quote.Price.Fixed()).
			Msg("stop level reached")
	}
	if !w.quiet {
		printMarkdown(renderer.Markdown(longshort.NewReport("Long & Short", snap, pass, w.filter)))
	}
}

// newHits returns the positions selected by f whose target is reached and differs from the one
// in seen, then updates seen with the targets of pass.
func newHits(seen map[longshort.Ref]longshort.Target, pass *longshort.Pass, f longshort.Filter) []longshort.Position {
	var hits []longshort.Position
	current := make(map[longshort.Ref]longshort.Target, len(pass.Positions))
	for _, p := range pass.Positions {
		if !p.Valued() || !f.Match(p) {
			continue
		}
		current[p.Ref] = p.Target
		if p.Target != longshort.NoTarget && seen[p.Ref] != p.Target {
			hits = append(hits, p)
		}
	}
	clear(seen)
	for ref, t := range current {
		seen[ref] = t
	}
	return hits
}

// cronLogger sends the cron messages to zerolog.
type cronLogger struct{ log zerolog.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
