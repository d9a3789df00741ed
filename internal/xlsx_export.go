package internal

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names
const (
	SheetMonthly = "Monthly"
	SheetRFM     = "RFM"
	SheetWeather = "Weather"
)

// ExportXLSX writes the report to an Excel workbook with one sheet per
// section. Each sheet holds its table and a native chart next to it.
func ExportXLSX(path string, r Report, title string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetMonthly); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	for _, name := range []string{SheetRFM, SheetWeather} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	if err := writeMonthlySheet(f, r, title); err != nil {
		return err
	}
	if err := writeRFMSheet(f, r); err != nil {
		return err
	}
	if err := writeWeatherSheet(f, r); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeMonthlySheet(f *excelize.File, r Report, title string) error {
	rows := [][]interface{}{{"Month", "Rentals"}}
	for _, m := range r.Monthly {
		rows = append(rows, []interface{}{m.Label, m.Total})
	}
	if err := setRows(f, SheetMonthly, 1, 1, rows); err != nil {
		return err
	}

	summaryRow := len(rows) + 2
	if err := setRows(f, SheetMonthly, 1, summaryRow, [][]interface{}{
		{"Total rent bike in a year", r.MonthlyTotal},
		{"Title", title},
		{"Range", r.Range.Start.Format("2006-01-02") + " - " + r.Range.End.Format("2006-01-02")},
	}); err != nil {
		return err
	}

	if len(r.Monthly) == 0 {
		return nil
	}
	return addChart(f, SheetMonthly, "E2", excelize.Line, SectionMonthly, "A", "B", len(r.Monthly))
}

func writeRFMSheet(f *excelize.File, r Report) error {
	if err := setRows(f, SheetRFM, 1, 1, [][]interface{}{
		{"Average Recency (days)", r.MeanRecency},
		{"Average frequency", r.MeanFrequency},
	}); err != nil {
		return err
	}

	// top tables side by side starting at row 4: recency in A:B, frequency in D:E
	recency := [][]interface{}{{"Id", "Recency (days)"}}
	for _, row := range r.TopRecency {
		recency = append(recency, []interface{}{row.Key, row.Recency})
	}
	frequency := [][]interface{}{{"Id", "Frequency"}}
	for _, row := range r.TopFrequency {
		frequency = append(frequency, []interface{}{row.Key, row.Frequency})
	}
	if err := setRows(f, SheetRFM, 1, 4, recency); err != nil {
		return err
	}
	if err := setRows(f, SheetRFM, 4, 4, frequency); err != nil {
		return err
	}

	// full RFM table below
	full := [][]interface{}{{"Id", "Last date", "Frequency", "Recency"}}
	for _, row := range r.RFM {
		full = append(full, []interface{}{row.Key, row.LastDate.Format("2006-01-02"), row.Frequency, row.Recency})
	}
	fullStart := 4 + max(len(recency), len(frequency)) + 2
	if err := setRows(f, SheetRFM, 1, fullStart, full); err != nil {
		return err
	}

	if len(r.TopRecency) > 0 {
		if err := addChartAt(f, SheetRFM, "G2", excelize.Col, "By Recency (days)", "A", "B", 5, len(r.TopRecency)); err != nil {
			return err
		}
	}
	if len(r.TopFrequency) > 0 {
		if err := addChartAt(f, SheetRFM, "G18", excelize.Col, "By frequency", "D", "E", 5, len(r.TopFrequency)); err != nil {
			return err
		}
	}
	return nil
}

func writeWeatherSheet(f *excelize.File, r Report) error {
	rows := [][]interface{}{{"Weather", "Code", "Rentals"}}
	for _, wt := range r.Weather {
		rows = append(rows, []interface{}{wt.Label, int(wt.Code), wt.Total})
	}
	if err := setRows(f, SheetWeather, 1, 1, rows); err != nil {
		return err
	}
	if len(r.Weather) == 0 {
		return nil
	}
	return addChart(f, SheetWeather, "E2", excelize.Col, "Number of Customers by Weather Condition", "A", "C", len(r.Weather))
}

func setRows(f *excelize.File, sheet string, col, row int, rows [][]interface{}) error {
	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(col, row+i)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// addChart adds a chart over a table whose header is on row 1.
func addChart(f *excelize.File, sheet, anchor string, chartType excelize.ChartType, title, catCol, valCol string, n int) error {
	return addChartAt(f, sheet, anchor, chartType, title, catCol, valCol, 2, n)
}

// addChartAt adds a chart over n data rows starting at firstRow.
func addChartAt(f *excelize.File, sheet, anchor string, chartType excelize.ChartType, title, catCol, valCol string, firstRow, n int) error {
	lastRow := firstRow + n - 1
	err := f.AddChart(sheet, anchor, &excelize.Chart{
		Type: chartType,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$%s$%d", sheet, valCol, firstRow-1),
			Categories: fmt.Sprintf("%s!$%s$%d:$%s$%d", sheet, catCol, firstRow, catCol, lastRow),
			Values:     fmt.Sprintf("%s!$%s$%d:$%s$%d", sheet, valCol, firstRow, valCol, lastRow),
		}},
		Title:  []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{Position: "none"},
	})
	if err != nil {
		return fmt.Errorf("adding chart to %s: %w", sheet, err)
	}
	return nil
}
