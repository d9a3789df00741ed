package server

import (
	"embed"
	"html/template"
	"strconv"

	"github.com/gigurra/rental-dashboard/internal"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type indexPage struct {
	Title string
	Error string

	Start, End string // selected range
	Min, Max   string // data bounds
	HasData    bool

	SectionMonthly string
	SectionRFM     string
	SectionWeather string

	MonthlyTotal  string
	MeanRecency   string
	MeanFrequency string
	RangeRows     string
	Scope         string

	MonthlyChart string
	RFMChart     string
	WeatherChart string

	Weather []weatherRow
}

type weatherRow struct {
	Label string
	Total string
}

func newIndexPage(d *Dashboard, r internal.Report, errMsg string) indexPage {
	nf := d.numbers
	page := indexPage{
		Title:   d.Title(r),
		Error:   errMsg,
		HasData: d.hasData,

		SectionMonthly: internal.SectionMonthly,
		SectionRFM:     internal.SectionRFM,
		SectionWeather: internal.SectionWeather,

		MonthlyTotal:  nf.Int(r.MonthlyTotal),
		MeanRecency:   nf.Float(r.MeanRecency, 1),
		MeanFrequency: nf.Float(r.MeanFrequency, 2),
		RangeRows:     nf.Int(r.RangeRows),
		Scope:         string(r.Scope),
	}
	if d.hasData {
		page.Start = r.Range.Start.Format(dateLayout)
		page.End = r.Range.End.Format(dateLayout)
		page.Min = d.bounds.Start.Format(dateLayout)
		page.Max = d.bounds.End.Format(dateLayout)
	}

	query := rangeQuery(r.Range)
	page.MonthlyChart = "/charts/" + internal.ChartMonthly + ".png?" + query
	page.RFMChart = "/charts/" + internal.ChartRFM + ".png?" + query
	page.WeatherChart = "/charts/" + internal.ChartWeather + ".png?" + query

	for _, wt := range r.Weather {
		label := wt.Label
		if !wt.Code.Known() {
			label += " (" + strconv.Itoa(int(wt.Code)) + ")"
		}
		page.Weather = append(page.Weather, weatherRow{Label: label, Total: nf.Int(wt.Total)})
	}
	return page
}
