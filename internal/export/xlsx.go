package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/lead-scout/internal/model"
)

// SheetName is the worksheet written by XLSX.
const SheetName = "Leads"

// XLSX writes leads as a single-sheet workbook with a Header row followed
// by one row per lead.
func XLSX(w io.Writer, leads []model.Lead) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	addRow(sheet, Header)
	for _, l := range leads {
		addRow(sheet, Row(l))
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// ReadXLSX reads the first sheet of an exported workbook back into leads.
// The header row is matched by name so columns may be reordered; unknown
// columns are ignored. Rows without a business name are skipped.
func ReadXLSX(path string) ([]model.Lead, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("export: workbook has no sheets")
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	cols := map[string]int{}
	for i, cell := range sheet.Rows[0].Cells {
		cols[cell.String()] = i
	}
	if _, ok := cols["Business Name"]; !ok {
		return nil, eris.New("export: missing \"Business Name\" column")
	}

	var leads []model.Lead
	for _, row := range sheet.Rows[1:] {
		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row.Cells) {
				return ""
			}
			return row.Cells[i].String()
		}
		name := get("Business Name")
		if name == "" {
			continue
		}
		leads = append(leads, model.Lead{
			Name:        name,
			Address:     get("Address"),
			Phone:       get("Phone"),
			Email:       get("Email"),
			Website:     get("Website"),
			SocialMedia: get("Social Media"),
			Rating:      get("Rating"),
			Analysis:    get("AI Analysis"),
			SourceURL:   get("Source Link"),
		})
	}
	return leads, nil
}
