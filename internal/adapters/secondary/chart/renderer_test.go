package chart

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soil-nutrient-service/internal/config"
	"soil-nutrient-service/internal/core/domain"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func testReport(schema domain.Schema) *domain.Report {
	ms := make([]domain.Measurement, schema.Len())
	for i, c := range schema.Columns {
		ms[i] = domain.Measurement{Name: c, Value: float64(i%7) + 0.5}
	}
	return &domain.Report{
		Variant:     "rf",
		Impedance:   50,
		Prediction:  domain.PredictionVector{Measurements: ms},
		GeneratedAt: time.Now(),
	}
}

func TestNewRenderer_Formats(t *testing.T) {
	_, err := NewRenderer(config.ChartConfig{Format: "gif"})
	assert.Error(t, err)

	r, err := NewRenderer(config.ChartConfig{})
	require.NoError(t, err)
	assert.Equal(t, "image/png", r.(*renderer).contentType())
}

func TestRenderer_PNG(t *testing.T) {
	r, err := NewRenderer(config.ChartConfig{Format: "png", Width: 800, Height: 500})
	require.NoError(t, err)

	report := testReport(domain.SchemaRF21)
	for _, kind := range []domain.Chart{domain.ChartBar, domain.ChartLine, domain.ChartRadar} {
		img, err := r.Render(kind, report)
		require.NoError(t, err, kind)
		assert.Equal(t, "image/png", img.ContentType)
		assert.Equal(t, kind, img.Kind)
		assert.True(t, bytes.HasPrefix(img.Data, pngMagic), kind)
	}
}

func TestRenderer_SVG(t *testing.T) {
	r, err := NewRenderer(config.ChartConfig{Format: "svg", Width: 800, Height: 500})
	require.NoError(t, err)

	img, err := r.Render(domain.ChartRadar, testReport(domain.SchemaBasic13))
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", img.ContentType)
	assert.Contains(t, string(img.Data), "<svg")
	assert.Contains(t, string(img.Data), "Soil Nutrient Composition")
}

func flatReport(values ...float64) *domain.Report {
	ms := make([]domain.Measurement, len(values))
	for i, v := range values {
		ms[i] = domain.Measurement{Name: domain.SchemaBasic13.Columns[i], Value: v}
	}
	return &domain.Report{Variant: "basic", Prediction: domain.PredictionVector{Measurements: ms}}
}

func TestRenderer_FlatAndSingleColumn(t *testing.T) {
	r, err := NewRenderer(config.ChartConfig{Width: 640, Height: 400})
	require.NoError(t, err)

	reports := map[string]*domain.Report{
		"flat":     flatReport(2, 2, 2),
		"zeros":    flatReport(0, 0, 0),
		"negative": flatReport(-3, -3),
		"single":   flatReport(5),
		"mixed":    flatReport(-1, 0, 4),
	}
	for name, report := range reports {
		for _, kind := range []domain.Chart{domain.ChartBar, domain.ChartLine, domain.ChartRadar} {
			img, err := r.Render(kind, report)
			require.NoError(t, err, "%s %s", name, kind)
			assert.True(t, bytes.HasPrefix(img.Data, pngMagic), "%s %s", name, kind)
		}
	}
}

func TestFlatRange(t *testing.T) {
	assert.Nil(t, flatRange(nil))
	assert.Nil(t, flatRange([]float64{1, 2}))

	rng := flatRange([]float64{0, 0})
	require.NotNil(t, rng)
	assert.Equal(t, 0.0, rng.Min)
	assert.Equal(t, 1.0, rng.Max)

	rng = flatRange([]float64{-3, -3})
	require.NotNil(t, rng)
	assert.Equal(t, -3.0, rng.Min)
	assert.Equal(t, 0.0, rng.Max)

	rng = flatRange([]float64{5})
	require.NotNil(t, rng)
	assert.Equal(t, 0.0, rng.Min)
	assert.Equal(t, 5.0, rng.Max)
}

func TestRenderer_RejectsTableAndEmpty(t *testing.T) {
	r, err := NewRenderer(config.ChartConfig{})
	require.NoError(t, err)

	_, err = r.Render(domain.ChartTable, testReport(domain.SchemaBasic13))
	assert.ErrorIs(t, err, domain.ErrInvalidChart)

	_, err = r.Render(domain.ChartBar, &domain.Report{})
	assert.Error(t, err)
}

func TestRadarPoint(t *testing.T) {
	x, y := radarPoint(100, 100, 50, 0)
	assert.Equal(t, 150, x)
	assert.Equal(t, 100, y)

	x, y = radarPoint(100, 100, 50, math.Pi/2)
	assert.Equal(t, 100, x)
	assert.Equal(t, 50, y)
}

func TestRadarScale(t *testing.T) {
	assert.Equal(t, 1.0, radarScale([]float64{-1, 0}))
	assert.Equal(t, 9.0, radarScale([]float64{2, 9, -4}))
}
