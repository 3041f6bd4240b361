package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is the content of one bulletin sheet, header row excluded.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// ReadBulletin reads every non-empty sheet of an XLSX workbook in
// workbook order.
func ReadBulletin(path string) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening XLSX: %w", err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", name, err)
		}
		if len(rows) == 0 {
			continue
		}
		sheets = append(sheets, Sheet{Name: name, Header: rows[0], Rows: rows[1:]})
	}

	if len(sheets) == 0 {
		return nil, fmt.Errorf("no data found in XLSX")
	}
	return sheets, nil
}
