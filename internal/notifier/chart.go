package notifier

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"GoldenCross/internal/calculator"
	"GoldenCross/internal/model"
)

var (
	colorPrice    = color.RGBA{R: 128, G: 128, B: 128, A: 160}
	colorFast     = color.RGBA{R: 255, G: 165, A: 255}
	colorSlow     = color.RGBA{B: 255, A: 220}
	colorBuy      = color.RGBA{R: 220, A: 255}
	colorSell     = color.RGBA{G: 160, A: 255}
	colorStrategy = color.RGBA{R: 220, A: 255}
)

// ChartData is everything drawn by RenderCharts.
type ChartData struct {
	Series             *model.PriceSeries
	FastWindow         int
	SlowWindow         int
	FastMA             []float64
	SlowMA             []float64
	Signals            []model.CrossoverSignal
	CumulativeMarket   []float64
	CumulativeStrategy []float64
}

// ChartDataFromReport pulls the chart inputs out of a finished run.
func ChartDataFromReport(r *model.Report) ChartData {
	return ChartData{
		Series:             r.Series,
		FastWindow:         r.FastWindow,
		SlowWindow:         r.SlowWindow,
		FastMA:             r.FastMA,
		SlowMA:             r.SlowMA,
		Signals:            r.Signals,
		CumulativeMarket:   r.Result.CumulativeMarket,
		CumulativeStrategy: r.Result.CumulativeStrategy,
	}
}

// ChartRenderer draws a two-panel PNG: price with both averages and the
// crossover markers on top, the two cumulative return curves below.
type ChartRenderer struct {
	Path   string
	Width  vg.Length
	Height vg.Length
}

// NewChartRenderer creates a renderer writing to path at 14x8 inches.
func NewChartRenderer(path string) *ChartRenderer {
	return &ChartRenderer{Path: path, Width: 14 * vg.Inch, Height: 8 * vg.Inch}
}

// RenderCharts writes the chart to r.Path.
func (r *ChartRenderer) RenderCharts(data ChartData) error {
	if dir := filepath.Dir(r.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	f, err := os.Create(r.Path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := r.WriteTo(f, data); err != nil {
		return err
	}
	return f.Close()
}

// WriteTo renders the chart as PNG into w.
func (r *ChartRenderer) WriteTo(w io.Writer, data ChartData) error {
	if data.Series == nil || data.Series.Len() == 0 {
		return fmt.Errorf("render chart: empty series")
	}
	pricePlot, err := r.pricePanel(data)
	if err != nil {
		return fmt.Errorf("price panel: %w", err)
	}
	returnPlot, err := r.returnPanel(data)
	if err != nil {
		return fmt.Errorf("return panel: %w", err)
	}

	plots := [][]*plot.Plot{{pricePlot}, {returnPlot}}
	img := vgimg.New(r.Width, r.Height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      1,
		PadTop:    vg.Points(8),
		PadBottom: vg.Points(8),
		PadLeft:   vg.Points(8),
		PadRight:  vg.Points(16),
		PadY:      vg.Points(16),
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *ChartRenderer) pricePanel(data ChartData) (*plot.Plot, error) {
	p := newTimePlot(fmt.Sprintf("%s Trading Strategy (Golden Cross)", data.Series.Symbol()), "Price ($)")
	dates := data.Series.Dates()

	closeLine, err := plotter.NewLine(timeXYs(dates, data.Series.Closes()))
	if err != nil {
		return nil, err
	}
	closeLine.Color = colorPrice
	p.Add(closeLine)
	p.Legend.Add("Close Price", closeLine)

	if xys := timeXYs(dates, data.FastMA); len(xys) > 0 {
		fast, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		fast.Color = colorFast
		fast.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(fast)
		p.Legend.Add(fmt.Sprintf("MA%d", data.FastWindow), fast)
	}
	if xys := timeXYs(dates, data.SlowMA); len(xys) > 0 {
		slow, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		slow.Color = colorSlow
		p.Add(slow)
		p.Legend.Add(fmt.Sprintf("MA%d", data.SlowWindow), slow)
	}

	// Markers sit on the fast average at the crossing bar.
	var buys, sells plotter.XYs
	for i, s := range data.Signals {
		if i >= len(data.FastMA) || !calculator.Defined(data.FastMA[i]) {
			continue
		}
		pt := plotter.XY{X: float64(dates[i].Unix()), Y: data.FastMA[i]}
		switch s {
		case model.SignalBuy:
			buys = append(buys, pt)
		case model.SignalSell:
			sells = append(sells, pt)
		}
	}
	if len(buys) > 0 {
		sc, err := plotter.NewScatter(buys)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle = draw.GlyphStyle{Color: colorBuy, Radius: vg.Points(5), Shape: draw.PyramidGlyph{}}
		p.Add(sc)
		p.Legend.Add("Buy Signal", sc)
	}
	if len(sells) > 0 {
		sc, err := plotter.NewScatter(sells)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle = draw.GlyphStyle{Color: colorSell, Radius: vg.Points(5), Shape: downTriangle{}}
		p.Add(sc)
		p.Legend.Add("Sell Signal", sc)
	}
	return p, nil
}

func (r *ChartRenderer) returnPanel(data ChartData) (*plot.Plot, error) {
	p := newTimePlot("Cumulative Returns Comparison", "Cumulative Return (1.0 = Initial Capital)")
	dates := data.Series.Dates()

	market, err := plotter.NewLine(timeXYs(dates, data.CumulativeMarket))
	if err != nil {
		return nil, err
	}
	market.Color = colorPrice
	strat, err := plotter.NewLine(timeXYs(dates, data.CumulativeStrategy))
	if err != nil {
		return nil, err
	}
	strat.Color = colorStrategy
	strat.Width = vg.Points(2)

	p.Add(market, strat)
	p.Legend.Add("Buy & Hold (Market)", market)
	p.Legend.Add("MA Strategy", strat)
	return p, nil
}

func newTimePlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())
	return p
}

// timeXYs pairs dates with values, dropping undefined values.
func timeXYs(dates []time.Time, values []float64) plotter.XYs {
	n := min(len(dates), len(values))
	xys := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		if !calculator.Defined(values[i]) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(dates[i].Unix()), Y: values[i]})
	}
	return xys
}

// downTriangle is a filled triangle pointing down.
type downTriangle struct{}

func (downTriangle) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	r := sty.Radius
	var p vg.Path
	p.Move(vg.Point{X: pt.X - r, Y: pt.Y + r})
	p.Line(vg.Point{X: pt.X + r, Y: pt.Y + r})
	p.Line(vg.Point{X: pt.X, Y: pt.Y - r})
	p.Close()
	c.SetColor(sty.Color)
	c.Fill(p)
}
