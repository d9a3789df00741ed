package internal

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// LoadDataset parses the file with the given source type (detected from the
// extension when empty), sorts the rows by date and keeps only the given year.
// The returned slice is owned by the caller and never shared with the parser.
func LoadDataset(path, source string, year int) ([]RentalRecord, error) {
	if source == "" {
		source = DetectSource(path)
	}
	parser, err := GetParser(source)
	if err != nil {
		return nil, err
	}

	records, err := parser.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return FilterYear(SortByDate(records), year), nil
}

// SortByDate returns a copy of records ordered by date ascending. Rows on the
// same date keep their file order.
func SortByDate(records []RentalRecord) []RentalRecord {
	sorted := make([]RentalRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// FilterYear returns the records whose date falls in the given calendar year.
func FilterYear(records []RentalRecord, year int) []RentalRecord {
	filtered := make([]RentalRecord, 0, len(records))
	for _, r := range records {
		if r.Date.Year() == year {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Bounds returns the earliest and latest date in records.
// ok is false for an empty table.
func Bounds(records []RentalRecord) (r DateRange, ok bool) {
	if len(records) == 0 {
		return DateRange{}, false
	}
	r = DateRange{Start: records[0].Date, End: records[0].Date}
	for _, rec := range records[1:] {
		if rec.Date.Before(r.Start) {
			r.Start = rec.Date
		}
		if rec.Date.After(r.End) {
			r.End = rec.Date
		}
	}
	return r, true
}

// FilterRange returns the records dated within r, both ends inclusive.
// The input is never modified; the result may be empty.
func FilterRange(records []RentalRecord, r DateRange) []RentalRecord {
	filtered := make([]RentalRecord, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.Date) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// ClampRange limits both ends of r to bounds, the way a bounded date picker
// would. An ordered r stays ordered.
func ClampRange(r, bounds DateRange) DateRange {
	r.Start = clampDate(r.Start, bounds)
	r.End = clampDate(r.End, bounds)
	return r
}

func clampDate(d time.Time, bounds DateRange) time.Time {
	if d.Before(bounds.Start) {
		return bounds.Start
	}
	if d.After(bounds.End) {
		return bounds.End
	}
	return d
}

// ErrStartAfterEnd is returned by ResolveRange for an inverted selection.
var ErrStartAfterEnd = errors.New("start date is after end date")

// ResolveRange turns a start/end selection into a range within bounds.
// Empty values default to the corresponding bound.
func ResolveRange(start, end string, bounds DateRange) (DateRange, error) {
	r := bounds
	if start != "" {
		d, err := ParseDate(start)
		if err != nil {
			return DateRange{}, fmt.Errorf("start: %w", err)
		}
		r.Start = d
	}
	if end != "" {
		d, err := ParseDate(end)
		if err != nil {
			return DateRange{}, fmt.Errorf("end: %w", err)
		}
		r.End = d
	}
	if r.Start.After(r.End) {
		return DateRange{}, fmt.Errorf("%w: %s > %s", ErrStartAfterEnd,
			r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	}
	return ClampRange(r, bounds), nil
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
