package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/longshort"
	"github.com/etnz/longshort/renderer"
	"github.com/google/subcommands"
)

// renameClientCmd renames a client of an advisor.
type renameClientCmd struct {
	advisor string
	from    string
	to      string
}

func (*renameClientCmd) Name() string     { return "rename-client" }
func (*renameClientCmd) Synopsis() string { return "rename a client of an advisor" }
func (*renameClientCmd) Usage() string {
	return `lsdesk rename-client -advisor <name> -from <client> -to <client>

  Moves every operation of a client to a new name. Fails if the new name already exists
  under that advisor. The capacity stays attached to the old name.
`
}

func (c *renameClientCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.advisor, "advisor", "", "Advisor of the client")
	f.StringVar(&c.from, "from", "", "Current client name")
	f.StringVar(&c.to, "to", "", "New client name")
}

func (c *renameClientCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withDesk(ctx, func(d *desk) subcommands.ExitStatus {
		advisor := c.advisor
		if advisor == "" {
			advisor = d.cfg.Migration.DefaultAdvisor
		}
		return d.apply(ctx, func(s *longshort.Snapshot) (longshort.Change, error) {
			return s.RenameClient(advisor, c.from, c.to)
		})
	})
}

// capacityCmd sets the capital available to a client.
type capacityCmd struct {
	client string
	amount moneyFlag
}

func (*capacityCmd) Name() string     { return "capacity" }
func (*capacityCmd) Synopsis() string { return "set the capital available to a client" }
func (*capacityCmd) Usage() string {
	return `lsdesk capacity -client <name> -amount <amount>

  Sets the capacity of a client, 0 removes it. The remaining capacity is the capacity minus
  the entry notional of every operation of the client, and may be negative.
`
}

func (c *capacityCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.client, "client", "", "Client name")
	f.Var(&c.amount, "amount", "Capacity of the client")
}

func (c *capacityCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.amount.set {
		fmt.Fprintln(os.Stderr, "Error: -amount is required")
		return subcommands.ExitUsageError
	}
	return withDesk(ctx, func(d *desk) subcommands.ExitStatus {
		return d.apply(ctx, func(s *longshort.Snapshot) (longshort.Change, error) {
			return s.SetCapacity(c.client, c.amount.value)
		})
	})
}

// clientsCmd displays the consolidated view of each client.
type clientsCmd struct {
	filterFlags
}

func (*clientsCmd) Name() string     { return "clients" }
func (*clientsCmd) Synopsis() string { return "display the result and capacity of each client" }
func (*clientsCmd) Usage() string {
	return `lsdesk clients [-advisor <names>] [-client <names>]

  Displays, for each client, the number of operations, the net result, the capacity and the
  remaining capacity.
`
}

func (c *clientsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.advisors, "advisor", "", "Comma separated advisors to report on, all by default")
	f.StringVar(&c.clients, "client", "", "Comma separated clients to report on, all by default")
}

func (c *clientsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := c.filter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withDesk(ctx, func(d *desk) subcommands.ExitStatus {
		snap, pass, err := d.evaluate(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		var selected []longshort.ClientSummary
		for _, cs := range longshort.SummarizeClients(snap, pass.Positions) {
			p := longshort.Position{Ref: longshort.Ref{Advisor: cs.Advisor, Client: cs.Client}}
			if filter.Match(p) {
				selected = append(selected, cs)
			}
		}
		printMarkdown(renderer.ClientsMarkdown("Clients", selected))
		return subcommands.ExitSuccess
	})
}
