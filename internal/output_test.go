package internal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func sampleReport() Report {
	records := yearTable()
	records = append(records, rec(6, "2011-04-30", 4, WeatherCode(7)))
	bounds, _ := Bounds(records)
	return BuildReport(records, 2011, bounds, ReportOptions{})
}

func TestPrintReportJSON(t *testing.T) {
	r := sampleReport()
	var buf bytes.Buffer
	if err := PrintReportJSON(&buf, r, r.Title()); err != nil {
		t.Fatalf("PrintReportJSON error: %v", err)
	}

	var out JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Title != "Analysis of Bicycle Rental Volume in 2011" || out.Year != 2011 {
		t.Errorf("unexpected header %q %d", out.Title, out.Year)
	}
	if out.Range.Start != "2011-01-01" || out.Range.End != "2011-04-30" {
		t.Errorf("unexpected range %+v", out.Range)
	}
	if out.Monthly.Total != 49 || len(out.Monthly.Months) != 4 {
		t.Errorf("unexpected monthly section %+v", out.Monthly)
	}
	if out.Monthly.Months[0].Month != "2011-01" || out.Monthly.Months[2].Total != 0 {
		t.Errorf("unexpected months %+v", out.Monthly.Months)
	}
	if len(out.RFM.Rows) != 6 || len(out.RFM.TopRecency) != 5 {
		t.Errorf("unexpected RFM section: %d rows, %d top", len(out.RFM.Rows), len(out.RFM.TopRecency))
	}
	if out.Weather[0].Label != "Cloudy" || out.Weather[0].Total != 25 {
		t.Errorf("weather should be sorted by total, got %+v", out.Weather)
	}
	last := out.Weather[len(out.Weather)-1]
	if last.Code != 7 || last.Label != "Unknown" {
		t.Errorf("expected unknown code 7 last, got %+v", last)
	}
}

func TestPrintReportJSON_EmptyReport(t *testing.T) {
	r := BuildReport(nil, 2011, DateRange{}, ReportOptions{})
	var buf bytes.Buffer
	if err := PrintReportJSON(&buf, r, r.Title()); err != nil {
		t.Fatal(err)
	}
	// empty sections are arrays, not null
	for _, want := range []string{`"months": []`, `"rows": []`, `"weather": []`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %s in:\n%s", want, buf.String())
		}
	}
}

func TestPrintReportTable(t *testing.T) {
	r := sampleReport()
	var buf bytes.Buffer
	PrintReportTable(&buf, r, OutputOptions{Title: r.Title(), Numbers: NewNumberFormat("en")})
	output := buf.String()

	for _, want := range []string{
		"Analysis of Bicycle Rental Volume in 2011",
		"Monthly Orders",
		"Total rent bike in a year: 49",
		"January",
		"March",
		"RFM Analysis",
		"Average Recency (days):",
		"By Recency (days)",
		"By frequency",
		"Weather Conditions",
		"Number of Customers by Weather Condition",
		"Light Rain",
		"Unknown (7)",
		"█",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}

	// sections appear in fixed order
	monthly := strings.Index(output, "Monthly Orders")
	rfm := strings.Index(output, "RFM Analysis")
	weather := strings.Index(output, "Weather Conditions")
	if !(monthly < rfm && rfm < weather) {
		t.Errorf("sections out of order: %d %d %d", monthly, rfm, weather)
	}
}

func TestPrintReportTable_LocaleNumbers(t *testing.T) {
	records := []RentalRecord{rec(1, "2011-01-01", 12345, WeatherClear)}
	r := BuildReport(records, 2011, DateRange{date("2011-01-01"), date("2011-01-01")}, ReportOptions{})

	var buf bytes.Buffer
	PrintReportTable(&buf, r, OutputOptions{Title: "t", Numbers: NewNumberFormat("de")})
	if !strings.Contains(buf.String(), "Total rent bike in a year: 12.345") {
		t.Errorf("expected German grouping in:\n%s", buf.String())
	}
}

func TestTextBar(t *testing.T) {
	tests := []struct {
		value, max, width int
		want              int
	}{
		{10, 10, 20, 20},
		{5, 10, 20, 10},
		{1, 1000, 20, 1}, // never invisible for a positive value
		{0, 10, 20, 0},
		{3, 0, 20, 0},
	}
	for _, tt := range tests {
		got := len([]rune(textBar(tt.value, tt.max, tt.width)))
		if got != tt.want {
			t.Errorf("textBar(%d, %d, %d) has %d cells, want %d", tt.value, tt.max, tt.width, got, tt.want)
		}
	}
}
