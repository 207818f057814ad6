package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/etnz/longshort"
	"github.com/etnz/longshort/renderer"
	"github.com/google/subcommands"
)

// positionsCmd displays the consolidated report.
type positionsCmd struct {
	filterFlags
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "value every operation at the current quotes" }
func (*positionsCmd) Usage() string {
	return `lsdesk positions [-status all|active|closed] [-advisor <names>] [-client <names>] [-month YYYY-MM]

  Values the Active operations at the current quotes and lists them with the Closed ones,
  their net result after costs, the stop levels reached and the consolidated totals.
  Symbols without a quote are listed apart and left out of the totals.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return report(ctx, c.filterFlags, func(_ *desk, r *longshort.Report) error {
		printMarkdown(renderer.Markdown(r))
		return nil
	})
}

// report evaluates the desk and hands the selected report to fn.
func report(ctx context.Context, ff filterFlags, fn func(*desk, *longshort.Report) error) subcommands.ExitStatus {
	filter, err := ff.filter()
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
		if err := fn(d, longshort.NewReport("Long & Short", snap, pass, filter)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	})
}

// monthlyCmd displays the closed result per month.
type monthlyCmd struct {
	filterFlags
	year  int
	chart string
}

func (*monthlyCmd) Name() string     { return "monthly" }
func (*monthlyCmd) Synopsis() string { return "display the closed result of each month of a year" }
func (*monthlyCmd) Usage() string {
	return `lsdesk monthly [-y <year>] [-advisor <names>] [-client <names>] [-chart <file.png>]

  Displays the net result of the operations closed in each month of a year, by default the
  most recent year with a closed operation. -chart also writes it as a bar chart.
`
}

func (c *monthlyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "y", 0, "Year, defaults to the latest year with a closed operation")
	f.StringVar(&c.advisors, "advisor", "", "Comma separated advisors to report on, all by default")
	f.StringVar(&c.clients, "client", "", "Comma separated clients to report on, all by default")
	f.StringVar(&c.chart, "chart", "", "Write the bar chart to this PNG file")
}

func (c *monthlyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := c.filter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withDesk(ctx, func(d *desk) subcommands.ExitStatus {
		snap := d.session.Snapshot()
		year := c.year
		if year == 0 {
			year = time.Now().Year()
			if years := longshort.ClosingYears(snap); len(years) > 0 {
				year = years[0]
			}
		}
		// closed operations do not need quotes.
		pass := longshort.Evaluate(ctx, snap, nil, longshort.EvaluateOptions{Logger: d.log})
		months := longshort.MonthlyClosed(pass.Positions, year, filter)
		printMarkdown(renderer.MonthlyMarkdown(year, months))

		if c.chart != "" {
			png, err := renderer.MonthlyChart(year, months)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
			if err := os.WriteFile(c.chart, png, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing chart %q: %v\n", c.chart, err)
				return subcommands.ExitFailure
			}
		}
		return subcommands.ExitSuccess
	})
}

// exportCmd writes the report to a file.
type exportCmd struct {
	filterFlags
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the report as markdown, csv, xlsx or pdf" }
func (*exportCmd) Usage() string {
	return `lsdesk export -format md|csv|xlsx|pdf [-o <file>] [-status all|active|closed] [-advisor <names>] [-client <names>] [-month YYYY-MM]

  Writes one row per operation with its current or realized result. Without -o, the report
  is written on the standard output.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.StringVar(&c.format, "format", "csv", "Export format: md, csv, xlsx or pdf")
	f.StringVar(&c.output, "o", "", "Output file, standard output by default")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return report(ctx, c.filterFlags, func(_ *desk, r *longshort.Report) error {
		var w io.Writer = os.Stdout
		if c.output != "" {
			file, err := os.Create(c.output)
			if err != nil {
				return err
			}
			defer file.Close()
			w = file
		}
		return renderer.Export(w, c.format, r)
	})
}
