package internal

import "strconv"

// ReportOptions controls one render pass
type ReportOptions struct {
	Scope  Scope
	RFMKey RFMKey
	TopN   int
}

// DefaultTopN is the number of ids shown in each RFM bar chart.
const DefaultTopN = 5

// Report holds everything derived from one date range selection.
type Report struct {
	Year      int
	Range     DateRange // selected range
	Bounds    DateRange // min/max date of the year table
	Scope     Scope
	RangeRows int // rows selected by the range filter
	TableRows int // rows the aggregators received

	Monthly      []MonthlyTotal
	MonthlyTotal int

	RFM           []RFMRow
	MeanRecency   float64
	MeanFrequency float64
	TopRecency    []RFMRow
	TopFrequency  []RFMRow

	Weather []WeatherTotal // sorted by total descending
}

// BuildReport runs filter and aggregation over the year table for the given
// range. The aggregators always receive one explicitly chosen table: the
// filtered rows for ScopeFiltered, the whole year for ScopeYear.
func BuildReport(yearRecords []RentalRecord, year int, r DateRange, opts ReportOptions) Report {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.Scope == "" {
		opts.Scope = ScopeFiltered
	}
	if opts.RFMKey == "" {
		opts.RFMKey = RFMKeyInstant
	}

	bounds, _ := Bounds(yearRecords)
	filtered := FilterRange(yearRecords, r)

	table := filtered
	if opts.Scope == ScopeYear {
		table = yearRecords
	}

	monthly := MonthlyTotals(table)
	rfm := RFM(table, opts.RFMKey)

	return Report{
		Year:      year,
		Range:     r,
		Bounds:    bounds,
		Scope:     opts.Scope,
		RangeRows: len(filtered),
		TableRows: len(table),

		Monthly:      monthly,
		MonthlyTotal: SumMonthly(monthly),

		RFM:           rfm,
		MeanRecency:   MeanRecency(rfm),
		MeanFrequency: MeanFrequency(rfm),
		TopRecency:    TopByRecency(rfm, opts.TopN),
		TopFrequency:  TopByFrequency(rfm, opts.TopN),

		Weather: SortWeatherByTotal(WeatherTotals(table)),
	}
}

// Title is the dashboard header for the report's year.
func (r Report) Title() string {
	return "Analysis of Bicycle Rental Volume in " + strconv.Itoa(r.Year)
}

// Section titles in display order.
const (
	SectionMonthly = "Monthly Orders"
	SectionRFM     = "RFM Analysis"
	SectionWeather = "Weather Conditions"
)
