package datactx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ValuesSheet is the sheet whose key | value rows become top-level scalars.
const ValuesSheet = "values"

// loadXLSX reads a workbook. The "values" sheet holds key | value pairs
// (an optional "key" header row is skipped); every other sheet becomes a
// list of row maps keyed by its header row, stored under the sheet name.
func loadXLSX(path string) (*Context, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	c := New(nil)
	c.source = path
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		if strings.EqualFold(sheet, ValuesSheet) {
			readValues(c.data, rows)
			continue
		}
		c.data[sheet] = readRecords(rows)
	}
	return c, nil
}

func readValues(dst map[string]any, rows [][]string) {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		key := strings.TrimSpace(row[0])
		if key == "" || (i == 0 && strings.EqualFold(key, "key")) {
			continue
		}
		val := ""
		if len(row) > 1 {
			val = row[1]
		}
		dst[key] = val
	}
}

func readRecords(rows [][]string) []any {
	records := []any{}
	if len(rows) == 0 {
		return records
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec := make(map[string]any, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			rec[h] = val
		}
		records = append(records, rec)
	}
	return records
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
