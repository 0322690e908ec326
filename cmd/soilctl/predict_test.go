package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"soil-nutrient-service/internal/core/domain"
	"soil-nutrient-service/internal/core/ports/output"
	"soil-nutrient-service/internal/core/services"
	"soil-nutrient-service/internal/testutil"
)

func testFactory(t *testing.T, charts ports.ChartRenderer) appFactory {
	t.Helper()
	variants := []domain.Variant{
		{Name: "basic", ArtifactPath: "basic.json", Schema: domain.SchemaBasic13},
		{Name: "rf", ArtifactPath: "rf.yaml", Schema: domain.SchemaRF21,
			Charts: []domain.Chart{domain.ChartTable, domain.ChartBar, domain.ChartRadar}},
		{Name: "broken", ArtifactPath: "broken.json", Schema: domain.SchemaUltisol21},
	}
	loader := &testutil.StaticLoader{
		Predictors: map[string]ports.Predictor{
			"basic": testutil.RampPredictor(13),
			"rf":    testutil.RampPredictor(21),
		},
		Errors: map[string]error{"broken": errors.New("bad magic")},
	}
	registry, err := services.NewModelRegistryService(loader, variants)
	require.NoError(t, err)

	return func(ctx context.Context) (*app, error) {
		registry.LoadAll(ctx)
		return &app{dashboard: services.NewDashboardService(registry, nil), charts: charts}, nil
	}
}

func run(t *testing.T, factory appFactory, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(factory)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPredictCmd_CSV(t *testing.T) {
	out, err := run(t, testFactory(t, nil), "predict", "--variant", "basic", "--impedance", "123.45")
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewBufferString(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Len(t, records[0], 14)
	assert.Equal(t, domain.ImpedanceColumn, records[0][0])
	assert.Equal(t, "123.45", records[1][0])
}

func TestPredictCmd_Errors(t *testing.T) {
	factory := testFactory(t, nil)

	_, err := run(t, factory, "predict", "--variant", "basic", "--impedance", " ")
	assert.ErrorIs(t, err, domain.ErrEmptyImpedance)

	_, err = run(t, factory, "predict", "--variant", "broken", "--impedance", "1")
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)

	_, err = run(t, factory, "predict", "--variant", "nope", "--impedance", "1")
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)

	_, err = run(t, factory, "predict", "--variant", "basic", "--impedance", "1", "--format", "xml")
	assert.Error(t, err)

	_, err = run(t, factory, "predict", "--impedance", "1")
	assert.Error(t, err)
}

func TestPredictCmd_OutDir(t *testing.T) {
	charts := new(testutil.MockChartRenderer)
	charts.On("Render", mock.Anything, mock.Anything).
		Return(&ports.RenderedChart{ContentType: "image/png", Data: []byte("png")}, nil)
	dir := filepath.Join(t.TempDir(), "report")

	_, err := run(t, testFactory(t, charts), "predict", "-v", "rf", "-i", "50", "--out", dir)
	require.NoError(t, err)

	for _, name := range []string{"table.csv", "report.json", "bar.png", "radar.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(filepath.Join(dir, "line.png"))
	assert.True(t, os.IsNotExist(err))
	charts.AssertNumberOfCalls(t, "Render", 2)
}

func TestVariantsCmd(t *testing.T) {
	out, err := run(t, testFactory(t, nil), "variants")
	require.NoError(t, err)

	assert.Contains(t, out, "basic")
	assert.Contains(t, out, "basic-13")
	assert.Contains(t, out, "unavailable: bad magic")
	assert.Contains(t, out, "table,bar,radar")
}
