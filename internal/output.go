package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// OutputOptions controls how a report is displayed
type OutputOptions struct {
	Title    string
	Numbers  NumberFormat
	BarWidth int // width of the text bars standing in for charts
}

// JSONOutput is the root JSON output object
type JSONOutput struct {
	Title     string        `json:"title"`
	Year      int           `json:"year"`
	Range     JSONRange     `json:"range"`
	Bounds    JSONRange     `json:"bounds"`
	Scope     string        `json:"scope"`
	RangeRows int           `json:"range_rows"`
	TableRows int           `json:"table_rows"`
	Monthly   JSONMonthly   `json:"monthly_orders"`
	RFM       JSONRFM       `json:"rfm"`
	Weather   []JSONWeather `json:"weather"`
}

type JSONRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// JSONMonthly is the Monthly Orders section
type JSONMonthly struct {
	Total  int         `json:"total"`
	Months []JSONMonth `json:"months"`
}

type JSONMonth struct {
	Month string `json:"month"` // YYYY-MM
	Label string `json:"label"`
	Total int    `json:"total"`
}

// JSONRFM is the RFM Analysis section
type JSONRFM struct {
	AverageRecency   float64      `json:"average_recency"`
	AverageFrequency float64      `json:"average_frequency"`
	TopRecency       []JSONRFMRow `json:"top_recency"`
	TopFrequency     []JSONRFMRow `json:"top_frequency"`
	Rows             []JSONRFMRow `json:"rows"`
}

type JSONRFMRow struct {
	Key       int    `json:"key"`
	LastDate  string `json:"last_date"`
	Frequency int    `json:"frequency"`
	Recency   int    `json:"recency"`
}

type JSONWeather struct {
	Code  int    `json:"code"`
	Label string `json:"label"`
	Total int    `json:"total"`
}

// NewJSONOutput converts a report into its JSON representation
func NewJSONOutput(r Report, title string) JSONOutput {
	out := JSONOutput{
		Title:     title,
		Year:      r.Year,
		Range:     jsonRange(r.Range),
		Bounds:    jsonRange(r.Bounds),
		Scope:     string(r.Scope),
		RangeRows: r.RangeRows,
		TableRows: r.TableRows,
		Monthly: JSONMonthly{
			Total:  r.MonthlyTotal,
			Months: []JSONMonth{},
		},
		RFM: JSONRFM{
			AverageRecency:   r.MeanRecency,
			AverageFrequency: r.MeanFrequency,
			TopRecency:       jsonRFMRows(r.TopRecency),
			TopFrequency:     jsonRFMRows(r.TopFrequency),
			Rows:             jsonRFMRows(r.RFM),
		},
		Weather: []JSONWeather{},
	}

	for _, m := range r.Monthly {
		out.Monthly.Months = append(out.Monthly.Months, JSONMonth{
			Month: m.Month.Format("2006-01"),
			Label: m.Label,
			Total: m.Total,
		})
	}
	for _, w := range r.Weather {
		out.Weather = append(out.Weather, JSONWeather{Code: int(w.Code), Label: w.Label, Total: w.Total})
	}
	return out
}

func jsonRange(r DateRange) JSONRange {
	if r.Start.IsZero() && r.End.IsZero() {
		return JSONRange{}
	}
	return JSONRange{Start: r.Start.Format("2006-01-02"), End: r.End.Format("2006-01-02")}
}

func jsonRFMRows(rows []RFMRow) []JSONRFMRow {
	out := make([]JSONRFMRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, JSONRFMRow{
			Key:       r.Key,
			LastDate:  r.LastDate.Format("2006-01-02"),
			Frequency: r.Frequency,
			Recency:   r.Recency,
		})
	}
	return out
}

// PrintReportJSON outputs the report in JSON format
func PrintReportJSON(w io.Writer, r Report, title string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewJSONOutput(r, title))
}

// PrintReportTable outputs the report as formatted tables, one per section
func PrintReportTable(w io.Writer, r Report, opts OutputOptions) {
	if opts.BarWidth <= 0 {
		opts.BarWidth = 30
	}
	nf := opts.Numbers
	if nf.printer == nil {
		nf = NewNumberFormat("en")
	}

	fmt.Fprintln(w, text.Bold.Sprint(opts.Title))
	fmt.Fprintf(w, "Range: %s to %s (%d rows, scope: %s)\n\n",
		r.Range.Start.Format("2006-01-02"), r.Range.End.Format("2006-01-02"), r.RangeRows, r.Scope)

	// Monthly Orders
	fmt.Fprintln(w, text.Bold.Sprint(SectionMonthly))
	fmt.Fprintf(w, "Total rent bike in a year: %s\n", nf.Int(r.MonthlyTotal))
	monthlyMax := 0
	for _, m := range r.Monthly {
		monthlyMax = max(monthlyMax, m.Total)
	}
	t := newSectionTable(w, table.Row{"Month", "Rentals", ""})
	for _, m := range r.Monthly {
		t.AppendRow(table.Row{m.Label, nf.Int(m.Total), textBar(m.Total, monthlyMax, opts.BarWidth)})
	}
	t.AppendFooter(table.Row{text.Bold.Sprint("Total"), text.Bold.Sprint(nf.Int(r.MonthlyTotal)), ""})
	t.Render()
	fmt.Fprintln(w)

	// RFM Analysis
	fmt.Fprintln(w, text.Bold.Sprint(SectionRFM))
	fmt.Fprintf(w, "Average Recency (days): %s    Average frequency: %s\n",
		nf.Float(r.MeanRecency, 1), nf.Float(r.MeanFrequency, 2))
	recencyMax := 0
	for _, row := range r.TopRecency {
		recencyMax = max(recencyMax, row.Recency)
	}
	t = newSectionTable(w, table.Row{"Id", "Recency (days)", ""})
	t.SetTitle("By Recency (days)")
	for _, row := range r.TopRecency {
		t.AppendRow(table.Row{row.Key, nf.Int(row.Recency), textBar(row.Recency, recencyMax, opts.BarWidth)})
	}
	t.Render()
	frequencyMax := 0
	for _, row := range r.TopFrequency {
		frequencyMax = max(frequencyMax, row.Frequency)
	}
	t = newSectionTable(w, table.Row{"Id", "Frequency", ""})
	t.SetTitle("By frequency")
	for _, row := range r.TopFrequency {
		t.AppendRow(table.Row{row.Key, nf.Int(row.Frequency), textBar(row.Frequency, frequencyMax, opts.BarWidth)})
	}
	t.Render()
	fmt.Fprintln(w)

	// Weather Conditions
	fmt.Fprintln(w, text.Bold.Sprint(SectionWeather))
	weatherMax := 0
	for _, wt := range r.Weather {
		weatherMax = max(weatherMax, wt.Total)
	}
	t = newSectionTable(w, table.Row{"Weather", "Rentals", ""})
	t.SetTitle("Number of Customers by Weather Condition")
	for _, wt := range r.Weather {
		label := wt.Label
		if !wt.Code.Known() {
			label = text.FgHiBlack.Sprint(label + " (" + strconv.Itoa(int(wt.Code)) + ")")
		}
		t.AppendRow(table.Row{label, nf.Int(wt.Total), textBar(wt.Total, weatherMax, opts.BarWidth)})
	}
	t.Render()
}

func newSectionTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(header)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	return t
}

// textBar renders value as a bar proportional to maxValue.
func textBar(value, maxValue, width int) string {
	if maxValue <= 0 || value <= 0 {
		return ""
	}
	n := value * width / maxValue
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
