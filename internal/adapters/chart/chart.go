// Package chart renders the classified rating set as an interactive scatter
// chart, plus a best-effort PNG snapshot.
package chart

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/hoopsight/trapviz/internal/geometry"
	"github.com/hoopsight/trapviz/internal/ratings"
	"github.com/hoopsight/trapviz/pkg/logger"
)

// Chart dimension constants, matching the upstream 1200x800 canvas.
const (
	chartWidth  = 1200
	chartHeight = 800

	outsideMarkerSize = 6
	insideMarkerSize  = 14
)

// tooltipFormatter renders the per-point hover: team name in bold plus both
// metrics to one decimal place. Polygon outline points get no tooltip.
const tooltipFormatter = `function (params) {
	if (params.seriesType !== 'scatter') { return ''; }
	var v = params.value;
	return '<b>' + params.name + '</b><br/>' +
		'Tempo: ' + Number(v[0]).toFixed(1) + '<br/>' +
		'AdjEM: ' + Number(v[1]).toFixed(1);
}`

// Input is everything one chart needs.
type Input struct {
	Inside  []ratings.TeamRating
	Outside []ratings.TeamRating
	Region  geometry.Polygon
	Year    int
}

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithChromePath pins the browser binary used for PNG export instead of
// discovering one on PATH.
func WithChromePath(path string) Option {
	return func(r *Renderer) {
		if path != "" {
			r.chromePath = path
		}
	}
}

// WithLogger sets a custom logger for the renderer.
func WithLogger(log logger.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// Renderer builds and writes chart artifacts.
type Renderer struct {
	chromePath string
	log        logger.Logger
}

// NewRenderer constructs a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}

	for _, opt := range opts {
		opt(r)
	}

	if r.log == nil {
		r.log = logger.Get()
	}

	return r
}

// WriteHTML builds the scatter chart and writes the self-contained interactive
// document to path. This artifact is mandatory: any failure fails the run.
func (r *Renderer) WriteHTML(in Input, path string) error {
	scatter := r.build(in)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	defer f.Close()

	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return nil
}

// build assembles the three traces: polygon outline, outside circles, inside
// stars.
func (r *Renderer) build(in Input) *charts.Scatter {
	label := ratings.SeasonLabel(in.Year)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:           fmt.Sprintf("%dpx", chartWidth),
			Height:          fmt.Sprintf("%dpx", chartHeight),
			PageTitle:       "Trapezoid of Excellence",
			BackgroundColor: "#FFFFFF",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "ROAD TO INDIANAPOLIS",
			Subtitle: "Trapezoid of Excellence, " + label,
			Left:     "center",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:  "Adjusted Tempo",
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  "Adjusted Efficiency Margin",
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: opts.FuncOpts(tooltipFormatter),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "40",
		}),
	)

	scatter.AddSeries("Outside Trapezoid", scatterData(in.Outside, "circle", outsideMarkerSize),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "rgba(0,80,222,0.6)"}),
	)
	scatter.AddSeries("Inside Trapezoid", scatterData(in.Inside, "star", insideMarkerSize),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "gold", BorderColor: "orange"}),
	)

	scatter.Overlap(regionOutline(in.Region))

	return scatter
}

// scatterData converts team ratings into chart points.
func scatterData(teams []ratings.TeamRating, symbol string, size int) []opts.ScatterData {
	data := make([]opts.ScatterData, len(teams))
	for i, t := range teams {
		data[i] = opts.ScatterData{
			Name:       t.TeamName,
			Value:      []interface{}{t.AdjTempo, t.AdjEM},
			Symbol:     symbol,
			SymbolSize: size,
		}
	}
	return data
}

// regionOutline draws the closed, semi-transparently filled polygon.
func regionOutline(region geometry.Polygon) *charts.Line {
	line := charts.NewLine()

	// Close the path back to the first vertex.
	points := make([]opts.LineData, 0, len(region)+1)
	for _, v := range region {
		points = append(points, opts.LineData{Value: []interface{}{v.X, v.Y}})
	}
	if len(region) > 0 {
		points = append(points, opts.LineData{Value: []interface{}{region[0].X, region[0].Y}})
	}

	line.AddSeries("Highlighted Zone (Trapezoid)", points,
		charts.WithLineStyleOpts(opts.LineStyle{Color: "black", Width: 3}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Color: "rgba(0,0,0,0.1)"}),
	)
	return line
}
