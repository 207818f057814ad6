package renderer

import (
	"encoding/csv"
	"io"

	"github.com/etnz/longshort"
)

// CSV writes one line per operation, with a header line.
func CSV(w io.Writer, r *longshort.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if err := cw.Write(record(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
