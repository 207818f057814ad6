package longshort

import (
	"time"

	"github.com/etnz/longshort/date"
)

// ReportRow is the flat projection of a position, as exported.
type ReportRow struct {
	Ref        Ref
	Advisor    string
	Client     string
	Symbol     string
	Name       string
	Side       Side
	Quantity   Quantity
	EntryPrice Money
	EntryDate  date.Date
	Status     Status

	ClosingPrice Money     // Closed only
	ClosingDate  date.Date // Closed only

	Reference Money   // current price for Active, closing price for Closed
	Cost      Money   // transaction cost at the reference price
	Net       Money   // current net result for Active, realized for Closed
	Return    Percent // Net / entry notional
	Target    Target
	Error     string // set when the position could not be valued
}

// Report is the exportable content of a pass.
type Report struct {
	Title    string
	At       time.Time
	Rows     []ReportRow
	Totals   Totals
	Active   Totals
	Closed   Totals
	Clients  []ClientSummary
	Advisors []AdvisorSummary
	Failures map[string]string // symbol to cause
}

// NewReport projects the positions of a pass selected by f.
func NewReport(title string, snap *Snapshot, pass *Pass, f Filter) *Report {
	r := &Report{
		Title:    title,
		At:       pass.At,
		Failures: make(map[string]string),
	}
	var selected []Position
	for _, p := range pass.Positions {
		if !f.Match(p) {
			continue
		}
		selected = append(selected, p)
		r.Rows = append(r.Rows, newReportRow(p))
		if p.Err != nil {
			r.Failures[p.Operation.Symbol] = p.Err.Error()
		}
	}
	r.Totals = Aggregate(selected, Filter{})
	r.Active = Aggregate(selected, Filter{Status: ActiveOnly})
	r.Closed = Aggregate(selected, Filter{Status: ClosedOnly})

	for _, c := range SummarizeClients(snap, selected) {
		if c.All.Count+c.All.Skipped > 0 {
			r.Clients = append(r.Clients, c)
		}
	}
	for _, a := range SummarizeAdvisors(snap, selected) {
		if a.All.Count+a.All.Skipped > 0 {
			r.Advisors = append(r.Advisors, a)
		}
	}
	return r
}

func newReportRow(p Position) ReportRow {
	op := p.Operation
	row := ReportRow{
		Ref:        p.Ref,
		Advisor:    p.Ref.Advisor,
		Client:     p.Ref.Client,
		Symbol:     op.Symbol,
		Name:       p.Quote.Name,
		Side:       op.Side,
		Quantity:   op.Quantity,
		EntryPrice: op.EntryPrice,
		EntryDate:  op.EntryDate,
		Status:     op.Status,
		Target:     p.Target,
	}
	if op.Status == Closed {
		row.ClosingPrice = op.ClosingPrice
		row.ClosingDate = op.ClosingDate
	}
	if p.Err != nil {
		row.Error = p.Err.Error()
		return row
	}
	row.Reference = p.Valuation.Reference
	row.Cost = p.Valuation.Cost
	row.Net = p.Valuation.Net
	row.Return = p.Valuation.Return
	return row
}
