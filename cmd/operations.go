package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/longshort"
	"github.com/etnz/longshort/date"
	"github.com/google/subcommands"
)

// addCmd opens a new operation.
type addCmd struct {
	advisor  string
	client   string
	symbol   string
	side     string
	quantity quantityFlag
	price    moneyFlag
	date     string
	gain     moneyFlag
	loss     moneyFlag
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "open a new long or short operation" }
func (*addCmd) Usage() string {
	return `lsdesk add [-advisor <name>] [-client <name>] -symbol <ticker> -side <c|v> -qty <n> -price <amount> [-d <date>] [-gain <amount>] [-loss <amount>]

  Opens an Active operation for a client, creating the advisor and the client if needed.
  Side "c" (compra) opens a long position, "v" (venda) a short one.
  Stops are optional, 0 means no stop.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.advisor, "advisor", "", "Advisor of the client, defaults to the configured default advisor")
	f.StringVar(&c.client, "client", "", "Client owning the operation, defaults to the configured default client")
	f.StringVar(&c.symbol, "symbol", "", "Ticker, without the exchange suffix (e.g. PETR4)")
	f.StringVar(&c.side, "side", "c", "c (long) or v (short)")
	f.Var(&c.quantity, "qty", "Number of shares")
	f.Var(&c.price, "price", "Execution price")
	f.StringVar(&c.date, "d", date.Today().String(), "Execution date")
	f.Var(&c.gain, "gain", "Stop gain price")
	f.Var(&c.loss, "loss", "Stop loss price")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	side, err := longshort.ParseSide(c.side)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing side: %v\n", err)
		return subcommands.ExitUsageError
	}
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	op, err := longshort.NewOperation(c.symbol, side, c.quantity.value, c.price.value, on, c.gain.value, c.loss.value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withDesk(ctx, func(d *desk) subcommands.ExitStatus {
		advisor, client := c.advisor, c.client
		if advisor == "" {
			advisor = d.cfg.Migration.DefaultAdvisor
		}
		if client == "" {
			client = d.cfg.Migration.DefaultClient
		}
		return d.apply(ctx, func(s *longshort.Snapshot) (longshort.Change, error) {
			return s.Create(advisor, client, op)
		})
	})
}

// closeCmd closes an Active operation.
type closeCmd struct {
	ref   string
	price moneyFlag
	date  string
}

func (*closeCmd) Name() string     { return "close" }
func (*closeCmd) Synopsis() string { return "close an active operation and freeze its result" }
func (*closeCmd) Usage() string {
	return `lsdesk close -ref <advisor/client#index> [-price <amount>] [-d <date>]

  Closes an Active operation. Without -price, the operation is closed at the current quote.
  The net result is computed once, at the closing price, and never changes afterwards.
`
}

func (c *closeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ref, "ref", "", "Operation to close, as listed by 'positions'")
	f.Var(&c.price, "price", "Closing price, defaults to the current quote")
	f.StringVar(&c.date, "d", date.Today().String(), "Closing date")
}

func (c *closeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ref, err := longshort.ParseRef(c.ref)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withDesk(ctx, func(d *desk) subcommands.ExitStatus {
		price := c.price.value
		if !c.price.set {
			p, err := d.currentPrice(ctx, ref)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
			price = p
		}
		return d.apply(ctx, func(s *longshort.Snapshot) (longshort.Change, error) {
			return s.Close(ref, price, on)
		})
	})
}

// currentPrice resolves the quote of the operation at ref.
func (d *desk) currentPrice(ctx context.Context, ref longshort.Ref) (longshort.Money, error) {
	op, err := d.session.Snapshot().Operation(ref)
	if err != nil {
		return longshort.Money{}, err
	}
	r, err := d.quotes()
	if err != nil {
		return longshort.Money{}, err
	}
	q, err := r.Resolve(ctx, op.Symbol)
	if err != nil {
		return longshort.Money{}, err
	}
	return q.Price, nil
}

// editCmd corrects the fields of an operation.
type editCmd struct {
	ref          string
	quantity     quantityFlag
	price        moneyFlag
	gain         moneyFlag
	loss         moneyFlag
	closingPrice moneyFlag
	closingDate  string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "correct the fields of an operation" }
func (*editCmd) Usage() string {
	return `lsdesk edit -ref <advisor/client#index> [-qty <n>] [-price <amount>] [-gain <amount>] [-loss <amount>] [-closing-price <amount>] [-closing-date <date>]

  Changes only the given fields. Stops can be edited on Active operations only, closing
  fields on Closed operations only. Editing a Closed operation recomputes its result.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ref, "ref", "", "Operation to edit, as listed by 'positions'")
	f.Var(&c.quantity, "qty", "New number of shares")
	f.Var(&c.price, "price", "New execution price")
	f.Var(&c.gain, "gain", "New stop gain price, 0 removes it")
	f.Var(&c.loss, "loss", "New stop loss price, 0 removes it")
	f.Var(&c.closingPrice, "closing-price", "New closing price")
	f.StringVar(&c.closingDate, "closing-date", "", "New closing date")
}

// edit returns the Edit described by the flags.
func (c *editCmd) edit() (longshort.Edit, error) {
	var e longshort.Edit
	if c.quantity.set {
		e.Quantity = &c.quantity.value
	}
	if c.price.set {
		e.EntryPrice = &c.price.value
	}
	if c.gain.set {
		e.StopGain = &c.gain.value
	}
	if c.loss.set {
		e.StopLoss = &c.loss.value
	}
	if c.closingPrice.set {
		e.ClosingPrice = &c.closingPrice.value
	}
	if c.closingDate != "" {
		on, err := date.Parse(c.closingDate)
		if err != nil {
			return e, err
		}
		e.ClosingDate = &on
	}
	return e, nil
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ref, err := longshort.ParseRef(c.ref)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	e, err := c.edit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing closing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withDesk(ctx, func(d *desk) subcommands.ExitStatus {
		return d.apply(ctx, func(s *longshort.Snapshot) (longshort.Change, error) {
			return s.Edit(ref, e)
		})
	})
}

// deleteCmd removes an operation.
type deleteCmd struct {
	ref string
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "remove an operation" }
func (*deleteCmd) Usage() string {
	return `lsdesk delete -ref <advisor/client#index>

  Removes an operation, Active or Closed. The following operations of the client are
  renumbered.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ref, "ref", "", "Operation to delete, as listed by 'positions'")
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ref, err := longshort.ParseRef(c.ref)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withDesk(ctx, func(d *desk) subcommands.ExitStatus {
		return d.apply(ctx, func(s *longshort.Snapshot) (longshort.Change, error) {
			return s.Delete(ref)
		})
	})
}
