package internal

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads rental records from the first sheet of an Excel workbook.
// The header row is located by searching for the dteday column, so title rows
// above the table are tolerated. Fully empty rows are skipped.
func ParseXLSX(path string) ([]RentalRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	// Find header row
	headerRow := -1
	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) == dateColumns[0] {
				headerRow = i
				break
			}
		}
		if headerRow >= 0 {
			break
		}
	}
	if headerRow < 0 {
		return nil, fmt.Errorf("could not find header row (no %s column)", dateColumns[0])
	}

	idx, err := findColumns(rows[headerRow])
	if err != nil {
		return nil, err
	}
	maxCol := max(idx.date, idx.count, idx.weather, idx.instant)

	var records []RentalRecord
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		// GetRows trims trailing empty cells
		for len(row) <= maxCol {
			row = append(row, "")
		}

		rec, err := recordFromFields(i+1, row[idx.date], row[idx.count], row[idx.weather], row[idx.instant])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
