// Package cmd implements the CLI application of the long and short desk.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/longshort"
	"github.com/etnz/longshort/config"
	"github.com/etnz/longshort/logger"
	"github.com/etnz/longshort/quote"
	"github.com/etnz/longshort/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Commands lists every subcommand, by group.
func Commands() map[string][]subcommands.Command {
	return map[string][]subcommands.Command{
		"operations":    {&addCmd{}, &closeCmd{}, &editCmd{}, &deleteCmd{}},
		"clients":       {&renameClientCmd{}, &capacityCmd{}, &clientsCmd{}},
		"reports":       {&positionsCmd{}, &monthlyCmd{}, &exportCmd{}, &digestCmd{}},
		"services":      {&watchCmd{}, &serveCmd{}, &migrateCmd{}},
		"documentation": {&topicCmd{}},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for group, cmds := range Commands() {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "lsdesk.toml", "Path to the configuration file, a missing file keeps the defaults")
var documentID = flag.String("document", "", "Snapshot document to work on, overrides the configuration")
var verbose = flag.Bool("v", false, "Log debug messages")

// desk is the state of one invocation: configuration, store and the working session.
type desk struct {
	cfg      *config.Config
	log      zerolog.Logger
	store    store.Store
	session  *longshort.Session
	resolver longshort.QuoteResolver
}

// loadConfig reads the configuration and builds the logger.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if *documentID != "" {
		cfg.Document = *documentID
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, logger.New(logger.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty}), nil
}

// openDesk loads the configuration, opens the store and the session.
func openDesk(ctx context.Context) (*desk, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("cannot load configuration: %w", err)
	}
	st, err := store.Open(ctx, store.Config{
		Kind:     cfg.Store.Kind,
		Path:     cfg.Store.Path,
		Bucket:   cfg.Store.Bucket,
		Prefix:   cfg.Store.Prefix,
		Region:   cfg.Store.Region,
		Endpoint: cfg.Store.Endpoint,
		Logger:   log,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open store: %w", err)
	}
	d := &desk{cfg: cfg, log: log, store: st}
	if err := d.reload(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return d, nil
}

// reload opens the session again, to see the writes of other processes.
func (d *desk) reload(ctx context.Context) error {
	s, err := longshort.OpenSession(ctx, d.store, d.cfg.Document, longshort.SessionOptions{
		Migration: longshort.MigrateOptions{
			DefaultAdvisor: d.cfg.Migration.DefaultAdvisor,
			DefaultClient:  d.cfg.Migration.DefaultClient,
		},
		Logger: d.log,
	})
	if err != nil {
		return err
	}
	d.session = s
	return nil
}

func (d *desk) Close() error { return d.store.Close() }

// quotes returns the configured resolver, built on first use.
func (d *desk) quotes() (longshort.QuoteResolver, error) {
	if d.resolver != nil {
		return d.resolver, nil
	}
	chain, err := quote.Profile(d.cfg.Quotes, d.log)
	if err != nil {
		return nil, err
	}
	d.resolver = chain
	return chain, nil
}

// evaluate runs a pass over the current snapshot.
func (d *desk) evaluate(ctx context.Context) (*longshort.Snapshot, *longshort.Pass, error) {
	r, err := d.quotes()
	if err != nil {
		return nil, nil, err
	}
	precedence, err := longshort.ParsePrecedence(d.cfg.Targets.Precedence)
	if err != nil {
		return nil, nil, err
	}
	snap := d.session.Snapshot()
	pass := longshort.Evaluate(ctx, snap, r, longshort.EvaluateOptions{
		Precedence: precedence,
		Logger:     d.log,
	})
	return snap, pass, nil
}

// apply runs a lifecycle transition and reports it. A failed write is reported as a warning,
// the transition itself being valid.
func (d *desk) apply(ctx context.Context, fn func(*longshort.Snapshot) (longshort.Change, error)) subcommands.ExitStatus {
	change, err := d.session.Apply(ctx, fn)
	if errors.Is(err, longshort.ErrPersistence) {
		fmt.Println(change)
		fmt.Fprintf(os.Stderr, "Warning: the change is not persisted: %v\n", err)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(change)
	return subcommands.ExitSuccess
}

// withDesk opens the desk, runs fn, and closes it.
func withDesk(ctx context.Context, fn func(*desk) subcommands.ExitStatus) subcommands.ExitStatus {
	d, err := openDesk(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the desk: %v\n", err)
		return subcommands.ExitFailure
	}
	defer d.Close()
	return fn(d)
}

// printMarkdown renders markdown on the terminal, or prints it raw when it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(140))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

// moneyFlag is a flag.Value for amounts, tracking whether it was set.
type moneyFlag struct {
	value longshort.Money
	set   bool
}

func (m *moneyFlag) String() string {
	if m == nil || !m.set {
		return ""
	}
	return m.value.Fixed()
}

func (m *moneyFlag) Set(s string) error {
	v, err := longshort.ParseMoney(s)
	if err != nil {
		return err
	}
	m.value, m.set = v, true
	return nil
}

// quantityFlag is a flag.Value for a number of shares, tracking whether it was set.
type quantityFlag struct {
	value longshort.Quantity
	set   bool
}

func (q *quantityFlag) String() string {
	if q == nil || !q.set {
		return ""
	}
	return strconv.FormatInt(int64(q.value), 10)
}

func (q *quantityFlag) Set(s string) error {
	v, err := longshort.ParseQuantity(s)
	if err != nil {
		return err
	}
	q.value, q.set = v, true
	return nil
}
