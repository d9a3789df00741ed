package internal

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestIsKnownParser(t *testing.T) {
	// Register a test parser
	RegisterParser("test-format", ParserFunc(func(path string) ([]RentalRecord, error) {
		return nil, nil
	}))

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"known parser", "test-format", true},
		{"built-in csv parser", "csv", true},
		{"built-in xlsx parser", "xlsx", true},
		{"built-in json parser", "simple-json", true},
		{"unknown parser", "unknown-format", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsKnownParser(tt.input)
			if got != tt.expected {
				t.Errorf("IsKnownParser(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseFileArg(t *testing.T) {
	RegisterParser("test-format", ParserFunc(func(path string) ([]RentalRecord, error) {
		return nil, nil
	}))

	tests := []struct {
		name           string
		input          string
		expectedFormat string
		expectedPath   string
	}{
		{
			name:           "with known format prefix",
			input:          "test-format:data.json",
			expectedFormat: "test-format",
			expectedPath:   "data.json",
		},
		{
			name:           "with built-in format prefix",
			input:          "xlsx:day_hour.xlsx",
			expectedFormat: "xlsx",
			expectedPath:   "day_hour.xlsx",
		},
		{
			name:           "no prefix",
			input:          "day_hour.csv",
			expectedFormat: "",
			expectedPath:   "day_hour.csv",
		},
		{
			name:           "unknown prefix treated as path",
			input:          "unknown:data.json",
			expectedFormat: "",
			expectedPath:   "unknown:data.json",
		},
		{
			name:           "windows path with drive letter",
			input:          "C:\\Users\\test\\day_hour.csv",
			expectedFormat: "",
			expectedPath:   "C:\\Users\\test\\day_hour.csv",
		},
		{
			name:           "format prefix with absolute path",
			input:          "csv:/home/user/day_hour.csv",
			expectedFormat: "csv",
			expectedPath:   "/home/user/day_hour.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFormat, gotPath := ParseFileArg(tt.input)
			if gotFormat != tt.expectedFormat {
				t.Errorf("ParseFileArg(%q) format = %q, want %q", tt.input, gotFormat, tt.expectedFormat)
			}
			if gotPath != tt.expectedPath {
				t.Errorf("ParseFileArg(%q) path = %q, want %q", tt.input, gotPath, tt.expectedPath)
			}
		})
	}
}

func TestGetParser_Unknown(t *testing.T) {
	if _, err := GetParser("nope"); err == nil {
		t.Error("expected error for unknown source")
	}
}

func TestDetectSource(t *testing.T) {
	tests := map[string]string{
		"day_hour.csv":  "csv",
		"DAY_HOUR.XLSX": "xlsx",
		"book.xlsm":     "xlsx",
		"records.json":  "simple-json",
		"day_hour":      "csv",
	}
	for path, want := range tests {
		if got := DetectSource(path); got != want {
			t.Errorf("DetectSource(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2011, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2011-01-05", " 2011-01-05 ", "2011-01-05 13:00:00", "2011-01-05T13:00:00Z"} {
		got, err := ParseDate(in)
		if err != nil {
			t.Errorf("ParseDate(%q) error: %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %v", in, got, want)
		}
	}

	for _, in := range []string{"", "05/01/2011", "2011-13-01", "yesterday"} {
		if _, err := ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q) expected error", in)
		}
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"3", 3, false},
		{" 42 ", 42, false},
		{"3.0", 3, false},
		{"3.5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseInt(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseInt(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseCSV(t *testing.T) {
	path := writeFile(t, "day_hour.csv", strings.Join([]string{
		"instant_x,dteday,hr,weathersit_x,cnt_x",
		"1,2011-01-01,0,1,16",
		"2,2011-01-01,1,2,40",
		"3,2011-01-02,0,3,7",
	}, "\n")+"\n")

	records, err := ParseCSV(path)
	if err != nil {
		t.Fatalf("ParseCSV error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	want := RentalRecord{Instant: 2, Date: time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC), Count: 40, Weather: WeatherCloudy}
	if records[1] != want {
		t.Errorf("records[1] = %+v, want %+v", records[1], want)
	}
	if records[2].Weather != WeatherLightRain {
		t.Errorf("records[2].Weather = %v, want Light Rain", records[2].Weather)
	}
}

func TestParseCSV_UnsuffixedColumns(t *testing.T) {
	path := writeFile(t, "hour.csv", "instant,dteday,weathersit,cnt\n7,2011-02-03,2,9\n")

	records, err := ParseCSV(path)
	if err != nil {
		t.Fatalf("ParseCSV error: %v", err)
	}
	if len(records) != 1 || records[0].Instant != 7 || records[0].Count != 9 {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	path := writeFile(t, "day_hour.csv", "instant_x,dteday,weathersit_x,cnt_x\n")

	records, err := ParseCSV(path)
	if err != nil {
		t.Fatalf("ParseCSV error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %+v", records)
	}

	loaded, err := LoadDataset(path, "", 2011)
	if err != nil {
		t.Fatalf("LoadDataset error: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected empty dataset, got %d rows", len(loaded))
	}
}

func TestParseCSV_DuplicateColumnsKeepFirst(t *testing.T) {
	path := writeFile(t, "day_hour.csv", strings.Join([]string{
		"instant_x,dteday,weathersit_x,cnt_x,cnt_x",
		"1,2011-01-01,1,16,99",
	}, "\n")+"\n")

	records, err := ParseCSV(path)
	if err != nil {
		t.Fatalf("ParseCSV error: %v", err)
	}
	if len(records) != 1 || records[0].Count != 16 {
		t.Errorf("expected the first cnt_x column (16), got %+v", records)
	}
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing columns",
			content: "instant_x,dteday\n1,2011-01-01\n",
			wantErr: "missing required columns: cnt_x, weathersit_x",
		},
		{
			name:    "bad count",
			content: "instant_x,dteday,weathersit_x,cnt_x\n1,2011-01-01,1,10\n2,2011-01-01,1,lots\n",
			wantErr: "row 3: cnt",
		},
		{
			name:    "bad date",
			content: "instant_x,dteday,weathersit_x,cnt_x\n1,01/01/2011,1,10\n",
			wantErr: "row 2: invalid date",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(writeFile(t, "bad.csv", tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "day_hour.csv")
	for _, source := range []string{"csv", "xlsx", "simple-json"} {
		t.Run(source, func(t *testing.T) {
			p, err := GetParser(source)
			if err != nil {
				t.Fatal(err)
			}
			_, err = p.Parse(missing)
			if !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("expected fs.ErrNotExist, got %v", err)
			}
		})
	}
}

func TestParseXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day_hour.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Bike sharing export"},
		{},
		{"instant_x", "dteday", "weathersit_x", "cnt_x"},
		{1, "2011-03-01", 1, 12},
		{},
		{2, "2011-03-02", 2, 5},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	records, err := ParseXLSX(path)
	if err != nil {
		t.Fatalf("ParseXLSX error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].Instant != 2 || records[1].Count != 5 || records[1].Weather != WeatherCloudy {
		t.Errorf("unexpected record %+v", records[1])
	}
}

func TestParseXLSX_NoHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	f := excelize.NewFile()
	f.SetCellValue(f.GetSheetName(0), "A1", "nothing here")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	if _, err := ParseXLSX(path); err == nil || !strings.Contains(err.Error(), "header row") {
		t.Errorf("expected header row error, got %v", err)
	}
}

func TestParseSimpleJSON(t *testing.T) {
	path := writeFile(t, "records.json", `{"records": [
		{"instant": 1, "dteday": "2011-01-01", "cnt": 10, "weathersit": 1},
		{"instant": 2, "dteday": "2011-01-02", "cnt": 5, "weathersit": 9}
	]}`)

	records, err := ParseSimpleJSON(path)
	if err != nil {
		t.Fatalf("ParseSimpleJSON error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].Weather.Known() || records[1].Weather.String() != "Unknown" {
		t.Errorf("code 9 should be Unknown, got %v", records[1].Weather)
	}
}

func TestParseSimpleJSON_Invalid(t *testing.T) {
	if _, err := ParseSimpleJSON(writeFile(t, "bad.json", `{"records": [`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
	if _, err := ParseSimpleJSON(writeFile(t, "bad-date.json", `{"records": [{"instant": 1, "dteday": "soon"}]}`)); err == nil {
		t.Error("expected error for bad date")
	}
}
