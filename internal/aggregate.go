package internal

import (
	"math"
	"sort"
	"time"
)

// MonthlyTotals sums rental counts per calendar month. Every month between the
// earliest and the latest row is present, with a zero total when no rows fall
// into it. Results are ordered by month.
func MonthlyTotals(records []RentalRecord) []MonthlyTotal {
	bounds, ok := Bounds(records)
	if !ok {
		return nil
	}

	byMonth := make(map[time.Time]int)
	for _, r := range records {
		byMonth[monthStart(r.Date)] += r.Count
	}

	var totals []MonthlyTotal
	end := monthStart(bounds.End)
	for m := monthStart(bounds.Start); !m.After(end); m = m.AddDate(0, 1, 0) {
		totals = append(totals, MonthlyTotal{
			Month: m,
			Label: m.Month().String(),
			Total: byMonth[m],
		})
	}
	return totals
}

// SumMonthly returns the headline total across all months.
func SumMonthly(totals []MonthlyTotal) int {
	sum := 0
	for _, t := range totals {
		sum += t.Total
	}
	return sum
}

// RFM computes frequency (summed count) and recency per group. Recency is the
// number of days between the table's latest date and the group's latest date.
// Rows are ordered by key.
func RFM(records []RentalRecord, key RFMKey) []RFMRow {
	bounds, ok := Bounds(records)
	if !ok {
		return nil
	}

	groups := make(map[int]*RFMRow)
	for _, r := range records {
		k := rfmGroupKey(r, key)
		row, ok := groups[k]
		if !ok {
			row = &RFMRow{Key: k, LastDate: r.Date}
			groups[k] = row
		}
		row.Frequency += r.Count
		if r.Date.After(row.LastDate) {
			row.LastDate = r.Date
		}
	}

	rows := make([]RFMRow, 0, len(groups))
	for _, row := range groups {
		row.Recency = daysBetween(row.LastDate, bounds.End)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Key < rows[j].Key
	})
	return rows
}

func rfmGroupKey(r RentalRecord, key RFMKey) int {
	if key == RFMKeyDay {
		return r.Date.YearDay()
	}
	return r.Instant
}

// MeanRecency returns the average recency rounded to one decimal, 0 when empty.
func MeanRecency(rows []RFMRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum := 0
	for _, r := range rows {
		sum += r.Recency
	}
	return round(float64(sum)/float64(len(rows)), 1)
}

// MeanFrequency returns the average frequency rounded to two decimals, 0 when empty.
func MeanFrequency(rows []RFMRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum := 0
	for _, r := range rows {
		sum += r.Frequency
	}
	return round(float64(sum)/float64(len(rows)), 2)
}

// TopByRecency returns the n rows with the lowest recency. Ties keep key order.
func TopByRecency(rows []RFMRow, n int) []RFMRow {
	return topRows(rows, n, func(a, b RFMRow) bool { return a.Recency < b.Recency })
}

// TopByFrequency returns the n rows with the highest frequency. Ties keep key order.
func TopByFrequency(rows []RFMRow, n int) []RFMRow {
	return topRows(rows, n, func(a, b RFMRow) bool { return a.Frequency > b.Frequency })
}

func topRows(rows []RFMRow, n int, less func(a, b RFMRow) bool) []RFMRow {
	sorted := make([]RFMRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// WeatherTotals sums rental counts per weather code, ordered by code.
// Codes outside the fixed table are labelled "Unknown".
func WeatherTotals(records []RentalRecord) []WeatherTotal {
	byCode := make(map[WeatherCode]int)
	for _, r := range records {
		byCode[r.Weather] += r.Count
	}

	totals := make([]WeatherTotal, 0, len(byCode))
	for code, total := range byCode {
		totals = append(totals, WeatherTotal{Code: code, Label: code.String(), Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Code < totals[j].Code
	})
	return totals
}

// SortWeatherByTotal returns a copy ordered by total descending, then by code.
func SortWeatherByTotal(totals []WeatherTotal) []WeatherTotal {
	sorted := make([]WeatherTotal, len(totals))
	copy(sorted, totals)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Total != sorted[j].Total {
			return sorted[i].Total > sorted[j].Total
		}
		return sorted[i].Code < sorted[j].Code
	})
	return sorted
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
