package internal

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Parser parses a dataset file into rental records
type Parser interface {
	Parse(path string) ([]RentalRecord, error)
}

// ParserFunc is a function that implements Parser
type ParserFunc func(path string) ([]RentalRecord, error)

func (f ParserFunc) Parse(path string) ([]RentalRecord, error) {
	return f(path)
}

// parsers is the registry of available parsers
var parsers = map[string]Parser{}

// RegisterParser registers a parser with the given name
func RegisterParser(name string, p Parser) {
	parsers[name] = p
}

// GetParser returns the parser for the given source type
func GetParser(source string) (Parser, error) {
	p, ok := parsers[source]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %s (available: %v)", source, AvailableSources())
	}
	return p, nil
}

// AvailableSources returns a sorted list of registered source types
func AvailableSources() []string {
	var sources []string
	for name := range parsers {
		sources = append(sources, name)
	}
	sort.Strings(sources)
	return sources
}

// IsKnownParser returns true if the name is a registered parser
func IsKnownParser(name string) bool {
	_, ok := parsers[name]
	return ok
}

// ParseFileArg parses a file argument that may have a format prefix.
// Returns (format, path). If no valid prefix, format is empty.
// Example: "xlsx:data.xlsx" → ("xlsx", "data.xlsx")
// Example: "day_hour.csv" → ("", "day_hour.csv")
// Example: "C:\path\file.csv" → ("", "C:\path\file.csv") // Windows path
func ParseFileArg(arg string) (format, path string) {
	idx := strings.Index(arg, ":")
	if idx == -1 {
		return "", arg
	}
	prefix := arg[:idx]
	if IsKnownParser(prefix) {
		return prefix, arg[idx+1:]
	}
	return "", arg // Not a known parser, treat whole thing as path
}

// DetectSource picks a source type from the file extension, defaulting to csv.
func DetectSource(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	case ".json":
		return "simple-json"
	default:
		return "csv"
	}
}

// Column names in the merged day/hour export. The unsuffixed names of the
// raw hourly file are accepted as fallbacks.
var (
	dateColumns    = []string{"dteday"}
	countColumns   = []string{"cnt_x", "cnt"}
	weatherColumns = []string{"weathersit_x", "weathersit"}
	instantColumns = []string{"instant_x", "instant"}
)

// columnIndex maps header names to their column positions.
type columnIndex struct {
	date, count, weather, instant int
}

func findColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	lookup := func(names []string) int {
		for _, n := range names {
			if i, ok := pos[n]; ok {
				return i
			}
		}
		return -1
	}

	idx := columnIndex{
		date:    lookup(dateColumns),
		count:   lookup(countColumns),
		weather: lookup(weatherColumns),
		instant: lookup(instantColumns),
	}

	var missing []string
	if idx.date < 0 {
		missing = append(missing, dateColumns[0])
	}
	if idx.count < 0 {
		missing = append(missing, countColumns[0])
	}
	if idx.weather < 0 {
		missing = append(missing, weatherColumns[0])
	}
	if idx.instant < 0 {
		missing = append(missing, instantColumns[0])
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a dteday value and truncates it to a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
}

// parseInt accepts integers, also when spreadsheets export them as "3.0".
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int(f), nil
}

// recordFromFields builds a record from raw cell values. row is 1-based and
// only used for error messages.
func recordFromFields(row int, dateStr, countStr, weatherStr, instantStr string) (RentalRecord, error) {
	date, err := ParseDate(dateStr)
	if err != nil {
		return RentalRecord{}, fmt.Errorf("row %d: %w", row, err)
	}
	count, err := parseInt(countStr)
	if err != nil {
		return RentalRecord{}, fmt.Errorf("row %d: cnt: %w", row, err)
	}
	weather, err := parseInt(weatherStr)
	if err != nil {
		return RentalRecord{}, fmt.Errorf("row %d: weathersit: %w", row, err)
	}
	instant, err := parseInt(instantStr)
	if err != nil {
		return RentalRecord{}, fmt.Errorf("row %d: instant: %w", row, err)
	}
	return RentalRecord{
		Instant: instant,
		Date:    date,
		Count:   count,
		Weather: WeatherCode(weather),
	}, nil
}

func init() {
	// Register built-in parsers
	RegisterParser("csv", ParserFunc(ParseCSV))
	RegisterParser("xlsx", ParserFunc(ParseXLSX))
}
