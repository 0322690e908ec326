package chart

import (
	"bytes"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"soil-nutrient-service/internal/core/domain"
)

var radarRings = []float64{0.25, 0.5, 0.75, 1}

// radarPoint maps a polar coordinate onto the canvas with angle zero pointing
// east and angles growing counter-clockwise.
func radarPoint(cx, cy int, radius, angle float64) (int, int) {
	x := float64(cx) + radius*math.Cos(angle)
	y := float64(cy) - radius*math.Sin(angle)
	return int(math.Round(x)), int(math.Round(y))
}

// radarScale is the value drawn at the outer ring. Negative values are
// drawn at the centre.
func radarScale(values []float64) float64 {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return 1
	}
	return max
}

func (r *renderer) renderRadar(buf *bytes.Buffer, series domain.RadarSeries) error {
	rend, err := r.provider(r.width, r.height)
	if err != nil {
		return err
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return err
	}

	size := r.width
	if r.height < size {
		size = r.height
	}
	cx, cy := r.width/2, r.height/2+10
	outer := float64(size)/2 - 70
	scale := radarScale(series.Values)
	n := len(series.Angles) - 1

	rend.SetFillColor(drawing.ColorWhite)
	rend.MoveTo(0, 0)
	rend.LineTo(r.width, 0)
	rend.LineTo(r.width, r.height)
	rend.LineTo(0, r.height)
	rend.Close()
	rend.Fill()

	// grid
	rend.SetStrokeColor(gochart.ColorLightGray)
	rend.SetStrokeWidth(1)
	for _, ring := range radarRings {
		for i, a := range series.Angles {
			x, y := radarPoint(cx, cy, outer*ring, a)
			if i == 0 {
				rend.MoveTo(x, y)
			} else {
				rend.LineTo(x, y)
			}
		}
		rend.Close()
		rend.Stroke()
	}
	for _, a := range series.Angles[:n] {
		x, y := radarPoint(cx, cy, outer, a)
		rend.MoveTo(cx, cy)
		rend.LineTo(x, y)
		rend.Stroke()
	}

	// polygon
	rend.SetFillColor(colorCyan.WithAlpha(76))
	rend.SetStrokeColor(gochart.ColorBlue)
	rend.SetStrokeWidth(2)
	for i, a := range series.Angles {
		v := math.Max(series.Values[i], 0)
		x, y := radarPoint(cx, cy, outer*v/scale, a)
		if i == 0 {
			rend.MoveTo(x, y)
		} else {
			rend.LineTo(x, y)
		}
	}
	rend.Close()
	rend.FillStroke()

	// labels, skipping the closing duplicate
	rend.SetFont(font)
	rend.SetFontColor(gochart.ColorBlack)
	rend.SetFontSize(10)
	for i, a := range series.Angles[:n] {
		label := series.Categories[i]
		box := rend.MeasureText(label)
		x, y := radarPoint(cx, cy, outer+18, a)
		rend.Text(label, x-box.Width()/2, y+box.Height()/2)
	}

	rend.SetFontSize(14)
	title := "Soil Nutrient Composition"
	box := rend.MeasureText(title)
	rend.Text(title, cx-box.Width()/2, 10+box.Height())

	return rend.Save(buf)
}
