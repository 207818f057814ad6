package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/longshort"
	md "github.com/nao1215/markdown"
)

// Markdown renders the consolidated report.
func Markdown(r *longshort.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(r.Title)
	doc.PlainText(fmt.Sprintf("Quotes as of %s", r.At.Format("2006-01-02 15:04:05")))

	doc.H2("Consolidated Result")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"", "Positions", "Invested", md.Bold("Net P&L"), "Return"},
		Rows: [][]string{
			totalsRow("Active", r.Active),
			totalsRow("Closed", r.Closed),
			totalsRow(md.Bold("Total"), r.Totals),
		},
	})

	activeRows, closedRows := positionRows(r)
	if len(activeRows) > 0 {
		doc.H2("Active Operations")
		doc.Table(md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight,
				md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignLeft},
			Header: []string{"Ref", "Symbol", "Side", "Qty", "Entry", "Current", "Net P&L", "Return", "Target"},
			Rows:   activeRows,
		})
	}
	if len(closedRows) > 0 {
		doc.H2("Closed Operations")
		doc.Table(md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight,
				md.AlignRight, md.AlignRight, md.AlignLeft, md.AlignRight, md.AlignRight},
			Header: []string{"Ref", "Symbol", "Side", "Qty", "Entry", "Closing", "Closed on", "Net P&L", "Return"},
			Rows:   closedRows,
		})
	}

	if len(r.Clients) > 0 {
		doc.H2("Clients")
		doc.Table(clientsTable(r.Clients))
	}

	if len(r.Advisors) > 1 {
		doc.H2("Advisors")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Advisor", "Clients", "Invested", "Net P&L", "Return"},
		}
		for _, a := range r.Advisors {
			table.Rows = append(table.Rows, []string{
				a.Advisor,
				strconv.Itoa(a.Clients),
				a.All.EntryNotional.String(),
				a.All.Net.SignedString(),
				a.All.Return.SignedString(),
			})
		}
		doc.Table(table)
	}

	if len(r.Failures) > 0 {
		doc.H2("Unavailable Quotes")
		var items []string
		for _, sym := range failedSymbols(r) {
			items = append(items, fmt.Sprintf("%s: %s", md.Bold(sym), r.Failures[sym]))
		}
		doc.BulletList(items...)
	}

	return doc.String()
}

func totalsRow(label string, t longshort.Totals) []string {
	count := strconv.Itoa(t.Count)
	if t.Skipped > 0 {
		count = fmt.Sprintf("%d (+%d unpriced)", t.Count, t.Skipped)
	}
	return []string{label, count, t.EntryNotional.String(), t.Net.SignedString(), t.Return.SignedString()}
}

func positionRows(r *longshort.Report) (active, closed [][]string) {
	for _, row := range r.Rows {
		if row.Status == longshort.Closed {
			closed = append(closed, []string{
				row.Ref.String(), row.Symbol, row.Side.String(), row.Quantity.String(),
				row.EntryPrice.String(), row.ClosingPrice.String(), row.ClosingDate.String(),
				row.Net.SignedString(), row.Return.SignedString(),
			})
			continue
		}
		current, net, ret := "n/a", "n/a", "n/a"
		if row.Error == "" {
			current, net, ret = row.Reference.String(), row.Net.SignedString(), row.Return.SignedString()
		}
		active = append(active, []string{
			row.Ref.String(), row.Symbol, row.Side.String(), row.Quantity.String(),
			row.EntryPrice.String(), current, net, ret, targetLabel(row.Target),
		})
	}
	return active, closed
}

func targetLabel(t longshort.Target) string {
	switch t {
	case longshort.GainHit:
		return "stop gain hit"
	case longshort.LossHit:
		return "stop loss hit"
	}
	return ""
}

// ClientsMarkdown renders the client summaries.
func ClientsMarkdown(title string, clients []longshort.ClientSummary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)
	if len(clients) == 0 {
		doc.PlainText("No client yet.")
		return doc.String()
	}
	doc.Table(clientsTable(clients))
	return doc.String()
}

func clientsTable(clients []longshort.ClientSummary) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight,
			md.AlignRight, md.AlignRight, md.AlignRight},
		Header: []string{"Advisor", "Client", "Active", "Closed", "Net P&L", "Capacity", "Remaining"},
	}
	for _, c := range clients {
		capacity, remaining := "-", "-"
		if c.HasCapacity {
			capacity, remaining = c.Capacity.String(), c.Remaining.String()
		}
		table.Rows = append(table.Rows, []string{
			c.Advisor, c.Client,
			strconv.Itoa(c.Active.Count + c.Active.Skipped),
			strconv.Itoa(c.Closed.Count),
			c.All.Net.SignedString(),
			capacity, remaining,
		})
	}
	return table
}

// MonthlyMarkdown renders the closed performance of each month of a year.
func MonthlyMarkdown(year int, months []longshort.MonthSummary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Closed Operations in %d", year))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Month", "Operations", "Invested", "Net P&L", "Return"},
	}
	var total longshort.Totals
	for _, m := range months {
		t := m.Totals
		total.Count += t.Count
		total.EntryNotional = total.EntryNotional.Add(t.EntryNotional)
		total.Net = total.Net.Add(t.Net)
		if t.Count == 0 {
			table.Rows = append(table.Rows, []string{m.Month.String(), "-", "-", "-", "-"})
			continue
		}
		table.Rows = append(table.Rows, []string{
			m.Month.String(), strconv.Itoa(t.Count), t.EntryNotional.String(), t.Net.SignedString(), t.Return.SignedString(),
		})
	}
	table.Rows = append(table.Rows, []string{
		md.Bold(strconv.Itoa(year)), strconv.Itoa(total.Count), total.EntryNotional.String(),
		md.Bold(total.Net.SignedString()), total.Net.Ratio(total.EntryNotional).SignedString(),
	})
	doc.Table(table)
	return doc.String()
}
