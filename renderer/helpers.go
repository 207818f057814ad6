package renderer

import (
	"maps"
	"slices"

	"github.com/etnz/longshort"
)

// columns of the flat exports, in order.
var columns = []string{
	"Advisor", "Client", "Symbol", "Name", "Side", "Quantity", "Entry Price", "Entry Date", "Status",
	"Closing Price", "Closing Date", "Reference", "Cost", "Net P&L", "Return %", "Target", "Error",
}

// record returns the flat text values of a row, amounts in plain decimal notation.
func record(row longshort.ReportRow) []string {
	var closing, reference, cost, net, ret string
	if row.Status == longshort.Closed {
		closing = row.ClosingPrice.Fixed()
	}
	if row.Error == "" {
		reference = row.Reference.Fixed()
		cost = row.Cost.Fixed()
		net = row.Net.Fixed()
		ret = row.Return.Decimal().StringFixed(2)
	}
	return []string{
		row.Advisor, row.Client, row.Symbol, row.Name, row.Side.String(), row.Quantity.String(),
		row.EntryPrice.Fixed(), row.EntryDate.String(), row.Status.String(),
		closing, row.ClosingDate.String(), reference, cost, net, ret, row.Target.String(), row.Error,
	}
}

func failedSymbols(r *longshort.Report) []string { return slices.Sorted(maps.Keys(r.Failures)) }
