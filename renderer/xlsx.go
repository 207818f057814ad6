package renderer

import (
	"fmt"
	"io"

	"github.com/etnz/longshort"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook.
const (
	OperationsSheet = "Operations"
	ClientsSheet    = "Clients"
)

// XLSX writes a workbook with the operations and the client summaries.
func XLSX(w io.Writer, r *longshort.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OperationsSheet); err != nil {
		return fmt.Errorf("cannot rename sheet: %w", err)
	}
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(OperationsSheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range r.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := cells(row)
		if err := f.SetSheetRow(OperationsSheet, cell, &values); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(ClientsSheet); err != nil {
		return fmt.Errorf("cannot create sheet: %w", err)
	}
	if err := f.SetSheetRow(ClientsSheet, "A1", &[]any{"Advisor", "Client", "Active", "Closed", "Net P&L", "Capacity", "Remaining"}); err != nil {
		return err
	}
	for i, c := range r.Clients {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []any{c.Advisor, c.Client, c.Active.Count + c.Active.Skipped, c.Closed.Count, c.All.Net.AsFloat()}
		if c.HasCapacity {
			values = append(values, c.Capacity.AsFloat(), c.Remaining.AsFloat())
		}
		if err := f.SetSheetRow(ClientsSheet, cell, &values); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("cannot write workbook: %w", err)
	}
	return nil
}

// cells is like record but keeps numbers as numbers.
func cells(row longshort.ReportRow) []any {
	text := record(row)
	values := make([]any, len(text))
	for i, s := range text {
		values[i] = s
	}
	values[5] = int64(row.Quantity)
	values[6] = row.EntryPrice.AsFloat()
	if row.Status == longshort.Closed {
		values[9] = row.ClosingPrice.AsFloat()
	}
	if row.Error == "" {
		values[11] = row.Reference.AsFloat()
		values[12] = row.Cost.AsFloat()
		values[13] = row.Net.AsFloat()
		values[14] = row.Return.Decimal().Round(2).InexactFloat64()
	}
	return values
}
