package renderer

import (
	"bytes"
	"fmt"
	"math"

	"github.com/etnz/longshort"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	gainColor = drawing.ColorFromHex("16a34a") // green-600
	lossColor = drawing.ColorFromHex("dc2626") // red-600
)

// MonthlyChart renders the net result of each month as a PNG bar chart.
func MonthlyChart(year int, months []longshort.MonthSummary) ([]byte, error) {
	if len(months) == 0 {
		return nil, fmt.Errorf("no month to chart")
	}

	bars := make([]chart.Value, len(months))
	lo, hi := 0.0, 0.0
	for i, m := range months {
		v := m.Totals.Net.AsFloat()
		lo, hi = math.Min(lo, v), math.Max(hi, v)
		color := gainColor
		if v < 0 {
			color = lossColor
		}
		bars[i] = chart.Value{
			Value: v,
			Label: m.Month.From.Format("Jan"),
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
	}
	if lo == hi {
		// an empty year still needs a non empty range.
		hi = 1
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("Closed Net P&L %d", year),
		Width:      900,
		Height:     400,
		BarWidth:   45,
		BarSpacing: 20,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("R$%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
