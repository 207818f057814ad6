package renderer

import (
	"fmt"
	"io"

	"github.com/etnz/longshort"
	"github.com/go-pdf/fpdf"
)

// PDF writes a printable landscape report.
func PDF(w io.Writer, r *longshort.Report) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(r.Title), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(r.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Quotes as of "+r.At.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	for _, line := range []struct {
		label string
		t     longshort.Totals
	}{{"Active", r.Active}, {"Closed", r.Closed}, {"Total", r.Totals}} {
		pdf.CellFormat(30, 6, line.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, tr(line.t.Net.SignedString()), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, line.t.Return.SignedString(), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	header := []string{"Advisor", "Client", "Symbol", "Side", "Qty", "Entry", "Status", "Reference", "Net P&L", "Return"}
	widths := []float64{32, 32, 22, 16, 18, 30, 24, 30, 40, 24}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range r.Rows {
		reference, net, ret := "n/a", "n/a", "n/a"
		if row.Error == "" {
			reference, net, ret = row.Reference.String(), row.Net.SignedString(), row.Return.SignedString()
		}
		values := []string{
			row.Advisor, row.Client, row.Symbol, row.Side.String(), row.Quantity.String(),
			row.EntryPrice.String(), row.Status.String(), reference, net, ret,
		}
		for i, v := range values {
			align := "L"
			if i >= 4 && i != 6 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, tr(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(r.Failures) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, "Unavailable quotes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, sym := range failedSymbols(r) {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s: %s", sym, r.Failures[sym])), "", "L", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("cannot write pdf: %w", err)
	}
	return nil
}
