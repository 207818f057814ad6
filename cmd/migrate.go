package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "rewrite the document in the current shape" }
func (*migrateCmd) Usage() string {
	return `lsdesk migrate

  Opens the document, reports the shape it was found in and, when it is an older one, writes
  it back in the current shape. Operations without an advisor or a client are assigned to the
  configured defaults.
`
}

func (*migrateCmd) SetFlags(f *flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withDesk(ctx, func(d *desk) subcommands.ExitStatus {
		v := d.session.Version()
		snap := d.session.Snapshot()
		fmt.Printf("Document %q found as %s, %d operations.\n", d.cfg.Document, v, snap.Len())
		switch {
		case !v.NeedsMigration():
			fmt.Println("Nothing to migrate.")
		case d.session.Dirty():
			fmt.Fprintln(os.Stderr, "Warning: the migrated document could not be written, run migrate again.")
			return subcommands.ExitFailure
		default:
			fmt.Println("Migrated to the current shape.")
		}
		return subcommands.ExitSuccess
	})
}
