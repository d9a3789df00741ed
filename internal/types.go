package internal

import (
	"fmt"
	"strings"
	"time"
)

// RentalRecord is one hourly row of the rental dataset.
type RentalRecord struct {
	Instant int         // per-row identifier (instant_x)
	Date    time.Time   // calendar date, UTC midnight (dteday)
	Count   int         // rentals in the hour bucket (cnt_x)
	Weather WeatherCode // weather situation (weathersit_x)
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls on or between Start and End.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of calendar days covered by the range.
func (r DateRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return daysBetween(r.Start, r.End) + 1
}

type WeatherCode int

const (
	WeatherUnknown   WeatherCode = 0
	WeatherClear     WeatherCode = 1
	WeatherCloudy    WeatherCode = 2
	WeatherLightRain WeatherCode = 3
)

// String returns the display label. Codes outside 1-3 are "Unknown".
func (c WeatherCode) String() string {
	switch c {
	case WeatherClear:
		return "Clear"
	case WeatherCloudy:
		return "Cloudy"
	case WeatherLightRain:
		return "Light Rain"
	default:
		return "Unknown"
	}
}

// Known reports whether the code has a fixed label.
func (c WeatherCode) Known() bool {
	return c >= WeatherClear && c <= WeatherLightRain
}

type MonthlyTotal struct {
	Month time.Time // first day of the month
	Label string    // full month name, e.g. "January"
	Total int
}

type RFMRow struct {
	Key       int
	LastDate  time.Time
	Frequency int
	Recency   int // days between the table's max date and LastDate
}

type WeatherTotal struct {
	Code  WeatherCode
	Label string
	Total int
}

// RFMKey selects what RFM rows are grouped by.
type RFMKey string

const (
	RFMKeyInstant RFMKey = "instant"
	RFMKeyDay     RFMKey = "day"
)

// Scope selects which table the aggregators receive.
type Scope string

const (
	ScopeFiltered Scope = "filtered" // the user-selected date range
	ScopeYear     Scope = "year"     // the whole loaded year, ignoring the range
)

// ParseScope validates a scope name. Empty means ScopeFiltered.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeFiltered:
		return ScopeFiltered, nil
	case ScopeYear:
		return ScopeYear, nil
	}
	return "", &InvalidOptionError{Option: "scope", Value: s, Allowed: []string{string(ScopeFiltered), string(ScopeYear)}}
}

// ParseRFMKey validates an RFM grouping key. Empty means RFMKeyInstant.
func ParseRFMKey(s string) (RFMKey, error) {
	switch RFMKey(s) {
	case "", RFMKeyInstant:
		return RFMKeyInstant, nil
	case RFMKeyDay:
		return RFMKeyDay, nil
	}
	return "", &InvalidOptionError{Option: "rfm key", Value: s, Allowed: []string{string(RFMKeyInstant), string(RFMKeyDay)}}
}

type InvalidOptionError struct {
	Option  string
	Value   string
	Allowed []string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid %s %q (allowed: %s)", e.Option, e.Value, strings.Join(e.Allowed, ", "))
}
