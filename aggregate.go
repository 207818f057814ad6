package longshort

import (
	"maps"
	"slices"

	"github.com/etnz/longshort/date"
)

// StatusFilter selects operations by status.
type StatusFilter int

const (
	AnyStatus StatusFilter = iota
	ActiveOnly
	ClosedOnly
)

// ParseStatusFilter parses "all", "active" or "closed".
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch s {
	case "", "all":
		return AnyStatus, nil
	case "active", "ativa":
		return ActiveOnly, nil
	case "closed", "encerrada":
		return ClosedOnly, nil
	}
	return AnyStatus, invalid("status", "unknown status filter %q", s)
}

// Filter selects positions for aggregation. Zero fields select everything.
type Filter struct {
	Status   StatusFilter
	Closing  date.Range // closing date window, only closed operations match a non zero window
	Advisors []string
	Clients  []string
}

// Match reports whether the position is selected by f.
func (f Filter) Match(p Position) bool {
	op := p.Operation
	switch f.Status {
	case ActiveOnly:
		if op.Status != Active {
			return false
		}
	case ClosedOnly:
		if op.Status != Closed {
			return false
		}
	}
	if !f.Closing.IsZero() && (op.Status != Closed || !f.Closing.Contains(op.ClosingDate)) {
		return false
	}
	if len(f.Advisors) > 0 && !slices.Contains(f.Advisors, p.Ref.Advisor) {
		return false
	}
	if len(f.Clients) > 0 && !slices.Contains(f.Clients, p.Ref.Client) {
		return false
	}
	return true
}

// Totals aggregates the valuation of several positions.
type Totals struct {
	Count         int
	EntryNotional Money
	Gross         Money
	Cost          Money
	Net           Money
	Return        Percent // blended: Net / EntryNotional
	Skipped       int     // matching positions without a quote
}

// add accumulates a valued position.
func (t *Totals) add(v Valuation) {
	t.Count++
	t.EntryNotional = t.EntryNotional.Add(v.EntryNotional)
	t.Gross = t.Gross.Add(v.Gross)
	t.Cost = t.Cost.Add(v.Cost)
	t.Net = t.Net.Add(v.Net)
	t.Return = t.Net.Ratio(t.EntryNotional)
}

// Aggregate sums the positions selected by f. Positions without a quote are counted as
// Skipped and contribute nothing.
func Aggregate(positions []Position, f Filter) Totals {
	var t Totals
	for _, p := range positions {
		if !f.Match(p) {
			continue
		}
		if !p.Valued() {
			t.Skipped++
			continue
		}
		t.add(p.Valuation)
	}
	return t
}

// CapacityRemaining returns capacity minus the entry notional of ops. A negative result means
// the client is over-deployed.
func CapacityRemaining(capacity Money, ops []Operation) Money {
	remaining := capacity
	for _, op := range ops {
		remaining = remaining.Sub(op.EntryNotional())
	}
	return remaining
}

// ClientSummary is the consolidated view of one client of an advisor.
type ClientSummary struct {
	Advisor     string
	Client      string
	Active      Totals
	Closed      Totals
	All         Totals
	HasCapacity bool
	Capacity    Money
	Remaining   Money // capacity minus the entry notional of every operation of the client name
}

// SummarizeClients returns one summary per advisor and client, in alphabetical order.
func SummarizeClients(snap *Snapshot, positions []Position) []ClientSummary {
	// capacity is keyed by client name, across advisors.
	byName := make(map[string][]Operation)
	for ref, op := range snap.All() {
		byName[ref.Client] = append(byName[ref.Client], op)
	}

	var res []ClientSummary
	for _, an := range snap.AdvisorNames() {
		for _, cn := range snap.Advisors[an].ClientNames() {
			scope := Filter{Advisors: []string{an}, Clients: []string{cn}}
			cs := ClientSummary{
				Advisor: an,
				Client:  cn,
				All:     Aggregate(positions, scope),
			}
			scope.Status = ActiveOnly
			cs.Active = Aggregate(positions, scope)
			scope.Status = ClosedOnly
			cs.Closed = Aggregate(positions, scope)
			if capacity, ok := snap.Capacity[cn]; ok {
				cs.HasCapacity = true
				cs.Capacity = capacity
				cs.Remaining = CapacityRemaining(capacity, byName[cn])
			}
			res = append(res, cs)
		}
	}
	return res
}

// AdvisorSummary is the consolidated view of an advisor.
type AdvisorSummary struct {
	Advisor string
	Clients int
	Active  Totals
	Closed  Totals
	All     Totals
}

// SummarizeAdvisors returns one summary per advisor, in alphabetical order.
func SummarizeAdvisors(snap *Snapshot, positions []Position) []AdvisorSummary {
	var res []AdvisorSummary
	for _, an := range snap.AdvisorNames() {
		scope := Filter{Advisors: []string{an}}
		as := AdvisorSummary{Advisor: an, Clients: len(snap.Advisors[an].Clients), All: Aggregate(positions, scope)}
		scope.Status = ActiveOnly
		as.Active = Aggregate(positions, scope)
		scope.Status = ClosedOnly
		as.Closed = Aggregate(positions, scope)
		res = append(res, as)
	}
	return res
}

// MonthSummary is the closed performance of a calendar month.
type MonthSummary struct {
	Month  date.Range
	Totals Totals
}

// MonthlyClosed returns the closed performance of each month of a year, restricted by f.
func MonthlyClosed(positions []Position, year int, f Filter) []MonthSummary {
	res := make([]MonthSummary, 0, 12)
	f.Status = ClosedOnly
	for _, m := range date.Months(year) {
		f.Closing = m
		res = append(res, MonthSummary{Month: m, Totals: Aggregate(positions, f)})
	}
	return res
}

// ClosingYears returns the years having at least one closed operation, most recent first.
func ClosingYears(snap *Snapshot) []int {
	years := make(map[int]struct{})
	for _, op := range snap.All() {
		if op.Status == Closed && !op.ClosingDate.IsZero() {
			years[op.ClosingDate.Year()] = struct{}{}
		}
	}
	res := slices.Sorted(maps.Keys(years))
	slices.Reverse(res)
	return res
}
