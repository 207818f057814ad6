package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/longshort"
)

// Formats lists the export formats, by name.
var Formats = []string{"md", "csv", "xlsx", "pdf"}

// ContentType returns the MIME type of an export format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "md":
		return "text/markdown; charset=utf-8"
	case "csv":
		return "text/csv; charset=utf-8"
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Export writes r in format.
func Export(w io.Writer, format string, r *longshort.Report) error {
	switch strings.ToLower(format) {
	case "md", "markdown":
		_, err := io.WriteString(w, Markdown(r))
		return err
	case "csv":
		return CSV(w, r)
	case "xlsx":
		return XLSX(w, r)
	case "pdf":
		return PDF(w, r)
	}
	return fmt.Errorf("unknown export format %q, want one of %s", format, strings.Join(Formats, ", "))
}
