package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/longshort"
	"github.com/etnz/longshort/assist"
	"github.com/etnz/longshort/docs"
	"github.com/etnz/longshort/renderer"
	"github.com/google/subcommands"
)

// digestCmd asks the model for a commentary of the report.
type digestCmd struct {
	filterFlags
}

func (*digestCmd) Name() string     { return "digest" }
func (*digestCmd) Synopsis() string { return "comment the report with an AI model" }
func (*digestCmd) Usage() string {
	return `lsdesk digest [-status all|active|closed] [-advisor <names>] [-client <names>] [<question>...]

  Sends the consolidated report to the configured Gemini model and prints its commentary, or
  its answer to the question. The model can also read the client and monthly reports.
  Requires an API key (assist.api_key, LSDESK_ASSIST_API_KEY or GEMINI_API_KEY).
`
}

func (c *digestCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *digestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	question := strings.Join(f.Args(), " ")
	return report(ctx, c.filterFlags, func(d *desk, r *longshort.Report) error {
		client, err := assist.NewClient(ctx, d.cfg.Assist.APIKey)
		if errors.Is(err, assist.ErrDisabled) {
			return fmt.Errorf("%w, set assist.api_key in %s", err, *configFile)
		}
		if err != nil {
			return fmt.Errorf("cannot initialize the Gemini client: %w", err)
		}

		analyst := assist.NewAnalyst(d.cfg.Assist.Model, d.log, deskTools(d, r)...)
		if err := analyst.Start(ctx, client); err != nil {
			return err
		}
		answer, err := analyst.Digest(ctx, renderer.Markdown(r), question)
		if err != nil {
			return err
		}
		printMarkdown(answer)
		return nil
	})
}

// deskTools exposes the reports to the model, computed from the same pass as r.
func deskTools(d *desk, r *longshort.Report) []assist.Tool {
	return []assist.Tool{
		{
			Name:        "clients_report",
			Description: "Returns the result and the remaining capacity of every client, per advisor.",
			Render: func(ctx context.Context) (string, error) {
				return renderer.ClientsMarkdown("Clients", r.Clients), nil
			},
		},
		{
			Name:        "monthly_report",
			Description: "Returns the closed result of each month of the most recent year with a closed operation.",
			Render: func(ctx context.Context) (string, error) {
				snap := d.session.Snapshot()
				years := longshort.ClosingYears(snap)
				if len(years) == 0 {
					return "No closed operation yet.", nil
				}
				pass := longshort.Evaluate(ctx, snap, nil, longshort.EvaluateOptions{Logger: d.log})
				return renderer.MonthlyMarkdown(years[0], longshort.MonthlyClosed(pass.Positions, years[0], longshort.Filter{})), nil
			},
		},
		{
			Name:        "documentation",
			Description: "Returns the documentation of the desk: valuation rules, stops, quotes and storage.",
			Render: func(ctx context.Context) (string, error) {
				return docs.GetTopics("*")
			},
		},
		{
			Name:        "unavailable_quotes",
			Description: "Lists the symbols without a current quote, and why.",
			Render: func(ctx context.Context) (string, error) {
				if len(r.Failures) == 0 {
					return "Every quote is available.", nil
				}
				var b strings.Builder
				for _, sym := range slices.Sorted(maps.Keys(r.Failures)) {
					fmt.Fprintf(&b, "- %s: %s\n", sym, r.Failures[sym])
				}
				return b.String(), nil
			},
		},
	}
}
