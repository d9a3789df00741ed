package internal

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Chart names, shared by the file writer and the HTTP dashboard.
const (
	ChartMonthly = "monthly"
	ChartRFM     = "rfm"
	ChartWeather = "weather"
)

// ChartNames lists the charts in display order.
var ChartNames = []string{ChartMonthly, ChartRFM, ChartWeather}

var chartFiles = map[string]string{
	ChartMonthly: "monthly_orders.png",
	ChartRFM:     "rfm.png",
	ChartWeather: "weather.png",
}

// weatherPalette approximates a viridis ramp, darkest first.
var weatherPalette = []color.RGBA{
	{R: 68, G: 1, B: 84, A: 255},
	{R: 49, G: 104, B: 142, A: 255},
	{R: 53, G: 183, B: 121, A: 255},
	{R: 253, G: 231, B: 37, A: 255},
}

// Charter renders report charts as PNG images
type Charter struct {
	cfg ChartConfig
}

func NewCharter(cfg ChartConfig) *Charter {
	if cfg.Width <= 0 {
		cfg.Width = 16
	}
	if cfg.Height <= 0 {
		cfg.Height = 8
	}
	if cfg.lineColor == (color.RGBA{}) {
		cfg.lineColor, _ = ParseHexColor("#90CAF9")
	}
	if cfg.barColor == (color.RGBA{}) {
		cfg.barColor, _ = ParseHexColor("#72BCD4")
	}
	return &Charter{cfg: cfg}
}

// WriteAll writes every chart into dir and returns the written paths.
func (c *Charter) WriteAll(dir string, r Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	var paths []string
	for _, name := range ChartNames {
		path := filepath.Join(dir, chartFiles[name])
		if err := c.writeFile(path, name, r); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (c *Charter) writeFile(path, name string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := c.Render(f, name, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Render writes the named chart as PNG to w.
func (c *Charter) Render(w io.Writer, name string, r Report) error {
	switch name {
	case ChartMonthly:
		return c.renderPlot(w, c.monthlyPlot(r), c.cfg.Width, c.cfg.Height)
	case ChartRFM:
		return c.renderRFM(w, r)
	case ChartWeather:
		return c.renderPlot(w, c.weatherPlot(r), c.cfg.Width*0.6, c.cfg.Height*0.6)
	default:
		return fmt.Errorf("unknown chart %q", name)
	}
}

func (c *Charter) renderPlot(w io.Writer, p *plot.Plot, width, height float64) error {
	wt, err := p.WriterTo(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}

func (c *Charter) monthlyPlot(r Report) *plot.Plot {
	p := plot.New()
	p.Title.Text = SectionMonthly
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Add(plotter.NewGrid())

	if len(r.Monthly) == 0 {
		p.Title.Text += " (no data)"
		return p
	}

	points := make(plotter.XYs, len(r.Monthly))
	labels := make([]string, len(r.Monthly))
	for i, m := range r.Monthly {
		points[i].X = float64(i)
		points[i].Y = float64(m.Total)
		labels[i] = m.Label
	}

	line, scatter, err := plotter.NewLinePoints(points)
	if err != nil {
		// points are built from finite ints; NewLinePoints only fails on NaN/Inf
		p.Title.Text += " (no data)"
		return p
	}
	line.Color = c.cfg.lineColor
	line.Width = vg.Points(2)
	scatter.GlyphStyle.Color = c.cfg.lineColor
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(4)

	p.Add(line, scatter)
	p.NominalX(labels...)
	p.Y.Min = 0
	return p
}

func (c *Charter) weatherPlot(r Report) *plot.Plot {
	p := plot.New()
	p.Title.Text = "Number of Customers by Weather Condition"
	p.Title.TextStyle.Font.Size = vg.Points(15)

	if len(r.Weather) == 0 {
		p.Title.Text += " (no data)"
		return p
	}

	labels := make([]string, len(r.Weather))
	for i, wt := range r.Weather {
		labels[i] = wt.Label
		if !wt.Code.Known() {
			labels[i] += " (" + strconv.Itoa(int(wt.Code)) + ")"
		}

		// one bar chart per category so each gets its own palette color
		values := make(plotter.Values, len(r.Weather))
		values[i] = float64(wt.Total)
		bars, err := plotter.NewBarChart(values, vg.Points(40))
		if err != nil {
			continue
		}
		bars.Color = weatherPalette[i%len(weatherPalette)]
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
	}
	p.NominalX(labels...)
	p.Y.Min = 0
	return p
}

func (c *Charter) rfmPlot(title string, rows []RFMRow, value func(RFMRow) int) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(18)

	if len(rows) == 0 {
		p.Title.Text += " (no data)"
		return p
	}

	values := make(plotter.Values, len(rows))
	labels := make([]string, len(rows))
	for i, row := range rows {
		values[i] = float64(value(row))
		labels[i] = strconv.Itoa(row.Key)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		p.Title.Text += " (no data)"
		return p
	}
	bars.Color = c.cfg.barColor
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(labels...)
	p.Y.Min = 0
	return p
}

// renderRFM draws the recency and frequency bar charts side by side.
func (c *Charter) renderRFM(w io.Writer, r Report) error {
	plots := [][]*plot.Plot{{
		c.rfmPlot("By Recency (days)", r.TopRecency, func(row RFMRow) int { return row.Recency }),
		c.rfmPlot("By frequency", r.TopFrequency, func(row RFMRow) int { return row.Frequency }),
	}}

	img := vgimg.New(vg.Length(c.cfg.Width*1.5)*vg.Inch, vg.Length(c.cfg.Height*0.75)*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1,
		Cols: 2,
		PadX: vg.Inch / 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots[0] {
		plots[0][j].Draw(canvases[0][j])
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}
