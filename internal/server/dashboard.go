package server

import (
	"time"

	"go.uber.org/zap"

	"github.com/gigurra/rental-dashboard/internal"
	"github.com/gigurra/rental-dashboard/internal/observability"
)

// Dashboard holds the loaded year table and renders reports for date range
// selections. Every request recomputes its report from the table; nothing
// derived is kept between requests.
type Dashboard struct {
	records []internal.RentalRecord
	year    int
	bounds  internal.DateRange
	hasData bool

	cfg     *internal.Config
	charter *internal.Charter
	numbers internal.NumberFormat
	logger  *zap.Logger
}

// NewDashboard returns a dashboard over the given year table. The records are
// read-only from here on.
func NewDashboard(records []internal.RentalRecord, year int, cfg *internal.Config, logger *zap.Logger) *Dashboard {
	if cfg == nil {
		cfg = internal.NewDefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	bounds, ok := internal.Bounds(records)
	return &Dashboard{
		records: records,
		year:    year,
		bounds:  bounds,
		hasData: ok,
		cfg:     cfg,
		charter: internal.NewCharter(cfg.Charts),
		numbers: internal.NewNumberFormat(cfg.Locale),
		logger:  logger,
	}
}

// Bounds returns the earliest and latest date of the year table.
func (d *Dashboard) Bounds() internal.DateRange {
	return d.bounds
}

// Rows returns the number of rows in the year table.
func (d *Dashboard) Rows() int {
	return len(d.records)
}

// ResolveRange validates a start/end selection against the table bounds.
func (d *Dashboard) ResolveRange(start, end string) (internal.DateRange, error) {
	return internal.ResolveRange(start, end, d.bounds)
}

// Report runs the filter and aggregators for r.
func (d *Dashboard) Report(r internal.DateRange) internal.Report {
	began := time.Now()
	report := internal.BuildReport(d.records, d.year, r, d.cfg.ReportOptions())
	observability.RecordReport(string(report.Scope), report.TableRows, time.Since(began))
	return report
}

// Title returns the dashboard header.
func (d *Dashboard) Title(r internal.Report) string {
	return d.cfg.ReportTitle(r)
}
