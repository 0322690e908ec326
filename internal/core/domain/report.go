package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Measurement is one predicted column.
type Measurement struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// PredictionVector is the model output for one impedance, in schema order.
type PredictionVector struct {
	Measurements []Measurement `json:"measurements"`
}

// Len returns the number of predicted columns.
func (p PredictionVector) Len() int {
	return len(p.Measurements)
}

// Names returns a fresh slice of the column names.
func (p PredictionVector) Names() []string {
	out := make([]string, len(p.Measurements))
	for i, m := range p.Measurements {
		out[i] = m.Name
	}
	return out
}

// Values returns a fresh slice of the predicted values.
func (p PredictionVector) Values() []float64 {
	out := make([]float64, len(p.Measurements))
	for i, m := range p.Measurements {
		out[i] = m.Value
	}
	return out
}

// Report is the merged record of one input and its prediction. It is built
// once per prediction and never mutated; every projection copies its data.
type Report struct {
	ID          uuid.UUID        `json:"id"`
	Variant     string           `json:"variant"`
	Impedance   float64          `json:"impedance"`
	Prediction  PredictionVector `json:"prediction"`
	Warnings    []string         `json:"warnings"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// ============================================================================
// Projections
// ============================================================================

// Table is the single-row tabular view of a report.
type Table struct {
	Columns []string  `json:"columns"`
	Row     []float64 `json:"row"`
}

// CategorySeries pairs category labels with values.
type CategorySeries struct {
	Categories []string  `json:"categories"`
	Values     []float64 `json:"values"`
}

// LinePoint is one point of the line projection.
type LinePoint struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// RadarSeries is a closed polygon: the first category, value and angle are
// repeated at the end.
type RadarSeries struct {
	Categories []string  `json:"categories"`
	Values     []float64 `json:"values"`
	Angles     []float64 `json:"angles"`
}

// Table returns the impedance followed by every predicted column.
func (r *Report) Table() Table {
	n := r.Prediction.Len()
	t := Table{
		Columns: make([]string, 0, n+1),
		Row:     make([]float64, 0, n+1),
	}
	t.Columns = append(t.Columns, ImpedanceColumn)
	t.Row = append(t.Row, r.Impedance)
	for _, m := range r.Prediction.Measurements {
		t.Columns = append(t.Columns, m.Name)
		t.Row = append(t.Row, m.Value)
	}
	return t
}

// Bar returns the predictions keyed by column name; the impedance is the index
// and is not part of the series.
func (r *Report) Bar() CategorySeries {
	return CategorySeries{
		Categories: r.Prediction.Names(),
		Values:     r.Prediction.Values(),
	}
}

// Line returns the predictions as ordered points in schema order.
func (r *Report) Line() []LinePoint {
	pts := make([]LinePoint, len(r.Prediction.Measurements))
	for i, m := range r.Prediction.Measurements {
		pts[i] = LinePoint{X: m.Name, Y: m.Value}
	}
	return pts
}

// RadarProjection closes the polygon over fresh copies of the categories and
// values. Angles divide the circle across the N original categories, so the
// appended point lands on 2π.
func (r *Report) RadarProjection() RadarSeries {
	n := r.Prediction.Len()
	if n == 0 {
		return RadarSeries{}
	}
	cats := append(r.Prediction.Names(), r.Prediction.Measurements[0].Name)
	vals := append(r.Prediction.Values(), r.Prediction.Measurements[0].Value)
	angles := make([]float64, n+1)
	for i := range angles {
		angles[i] = 2 * math.Pi * float64(i) / float64(n)
	}
	return RadarSeries{Categories: cats, Values: vals, Angles: angles}
}
