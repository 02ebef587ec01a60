// Package export flattens the lead collection into spreadsheet-friendly
// tables.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/lead-scout/internal/model"
)

// Header is the column order shared by every export format.
var Header = []string{
	"Business Name",
	"Address",
	"Phone",
	"Email",
	"Website",
	"Social Media",
	"Rating",
	"AI Analysis",
	"Source Link",
}

// Row projects a lead onto the Header columns.
func Row(l model.Lead) []string {
	return []string{
		l.Name,
		l.Address,
		l.Phone,
		l.Email,
		l.Website,
		l.SocialMedia,
		l.Rating,
		l.Analysis,
		l.SourceURL,
	}
}

// Filename returns the default export name for the given day and extension.
func Filename(day time.Time, ext string) string {
	return fmt.Sprintf("leadgen_export_%s.%s", day.Format("2006-01-02"), ext)
}

// CSV renders leads as CSV text. The header line is written bare, every
// data value is double-quoted with embedded quotes doubled, and lines are
// joined with a single newline and no trailing newline.
func CSV(leads []model.Lead) string {
	lines := make([]string, 0, len(leads)+1)
	lines = append(lines, strings.Join(Header, ","))
	for _, l := range leads {
		row := Row(l)
		for i, v := range row {
			row[i] = quote(v)
		}
		lines = append(lines, strings.Join(row, ","))
	}
	return strings.Join(lines, "\n")
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
