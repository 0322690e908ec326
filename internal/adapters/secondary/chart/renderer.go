package chart

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"soil-nutrient-service/internal/config"
	"soil-nutrient-service/internal/core/domain"
	output "soil-nutrient-service/internal/core/ports/output"
)

const (
	FormatPNG = "png"
	FormatSVG = "svg"

	xAxisName = "Nutrient Type"
	yAxisName = "Predicted Value (%)"
)

var (
	colorSkyBlue = drawing.ColorFromHex("87ceeb")
	colorCyan    = drawing.ColorFromHex("00bcd4")
)

type renderer struct {
	format   string
	provider gochart.RendererProvider
	width    int
	height   int
}

// NewRenderer draws charts as PNG or SVG images of the configured size.
func NewRenderer(cfg config.ChartConfig) (output.ChartRenderer, error) {
	r := &renderer{format: strings.ToLower(cfg.Format), width: cfg.Width, height: cfg.Height}
	switch r.format {
	case "", FormatPNG:
		r.format = FormatPNG
		r.provider = gochart.PNG
	case FormatSVG:
		r.provider = gochart.SVG
	default:
		return nil, fmt.Errorf("unsupported chart format %q", cfg.Format)
	}
	if r.width <= 0 {
		r.width = 1024
	}
	if r.height <= 0 {
		r.height = 600
	}
	return r, nil
}

func (r *renderer) contentType() string {
	if r.format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (r *renderer) Render(kind domain.Chart, report *domain.Report) (*output.RenderedChart, error) {
	if report.Prediction.Len() == 0 {
		return nil, fmt.Errorf("render %s chart: report has no predictions", kind)
	}

	var buf bytes.Buffer
	var err error
	switch kind {
	case domain.ChartBar:
		err = r.renderBar(&buf, report.Bar())
	case domain.ChartLine:
		err = r.renderLine(&buf, report.Line())
	case domain.ChartRadar:
		err = r.renderRadar(&buf, report.RadarProjection())
	default:
		return nil, fmt.Errorf("%w: %q cannot be drawn as an image", domain.ErrInvalidChart, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s chart: %w", kind, err)
	}

	return &output.RenderedChart{
		Kind:        kind,
		ContentType: r.contentType(),
		Data:        buf.Bytes(),
	}, nil
}

func (r *renderer) renderBar(buf *bytes.Buffer, series domain.CategorySeries) error {
	bars := make([]gochart.Value, len(series.Values))
	for i, v := range series.Values {
		bars[i] = gochart.Value{
			Label: series.Categories[i],
			Value: v,
			Style: gochart.Style{FillColor: colorSkyBlue, StrokeColor: colorSkyBlue},
		}
	}

	slot := (r.width - 120) / len(bars)
	barWidth := slot * 3 / 5
	if barWidth < 4 {
		barWidth = 4
	}
	spacing := slot - barWidth
	if spacing < 1 {
		spacing = 1
	}

	bc := gochart.BarChart{
		Title:      "Soil Nutrient Prediction - Bar Chart",
		Width:      r.width,
		Height:     r.height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 60}},
		XAxis:      gochart.Style{TextRotationDegrees: 45},
		YAxis:      gochart.YAxis{Name: yAxisName},
		Bars:       bars,
	}
	if rng := flatRange(series.Values); rng != nil {
		bc.YAxis.Range = rng
	}
	return bc.Render(r.provider, buf)
}

func (r *renderer) renderLine(buf *bytes.Buffer, points []domain.LinePoint) error {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	ticks := make([]gochart.Tick, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Y
		ticks[i] = gochart.Tick{Value: float64(i), Label: p.X}
	}
	// a single point has no x range to draw over; ticks decide the range in
	// go-chart, so frame the point with blank ones
	if len(points) == 1 {
		ticks = []gochart.Tick{{Value: -1}, ticks[0], {Value: 1}}
	}
	ch := gochart.Chart{
		Title:      "Soil Nutrient Prediction - Line Chart",
		Width:      r.width,
		Height:     r.height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 60}},
		XAxis: gochart.XAxis{
			Name:      xAxisName,
			Ticks:     ticks,
			TickStyle: gochart.Style{TextRotationDegrees: 45},
		},
		YAxis: gochart.YAxis{Name: yAxisName},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    "Predicted",
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: colorCyan,
					StrokeWidth: 2,
					DotWidth:    4,
					DotColor:    colorCyan,
				},
			},
		},
	}
	if rng := flatRange(ys); rng != nil {
		ch.YAxis.Range = rng
	}
	return ch.Render(r.provider, buf)
}

// flatRange returns an explicit y range for values that are all equal, which
// go-chart cannot scale on its own. The axis then runs between zero and the
// value, or over [0, 1] when the value is zero. It returns nil otherwise.
func flatRange(values []float64) *gochart.ContinuousRange {
	if len(values) == 0 {
		return nil
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return nil
		}
	}
	lo, hi := math.Min(0, values[0]), math.Max(0, values[0])
	if lo == hi {
		hi = 1
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}
