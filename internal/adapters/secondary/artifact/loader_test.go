package artifact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"soil-nutrient-service/internal/core/domain"
	output "soil-nutrient-service/internal/core/ports/output"
	"soil-nutrient-service/internal/testutil"
)

var threeCols = domain.Schema{Name: "three", Columns: []string{"N(%)", "P(%)", "pH"}}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileLoader_Linear(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lin.json", `{
		"format_version": 1, "kind": "linear", "n_features": 1, "n_outputs": 3,
		"linear": {"coef": [[0.5], [-1], [0]], "intercept": [1, 2, 7]}
	}`)
	loader := NewFileLoader(dir, nil, 0)

	p, err := loader.Load(context.Background(), &domain.Variant{Name: "lin", ArtifactPath: "lin.json", Schema: threeCols})
	require.NoError(t, err)
	assert.Equal(t, domain.ArtifactLinear, p.Kind())

	out, err := p.Predict(context.Background(), [][]float64{{10}, {0}})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{6, -8, 7}, out[0], 1e-12)
	assert.InDeltaSlice(t, []float64{1, 2, 7}, out[1], 1e-12)

	_, err = p.Predict(context.Background(), [][]float64{{1, 2}})
	assert.Error(t, err)
}

func TestFileLoader_ForestYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rf.yaml", `
format_version: 1
kind: forest
n_features: 1
n_outputs: 3
outputs: ["N(%)", "P(%)", "pH"]
forest:
  trees:
    - nodes:
        - {feature: 0, threshold: 100, left: 1, right: 2}
        - {left: -1, right: -1, value: [1, 1, 1]}
        - {left: -1, right: -1, value: [3, 3, 3]}
    - nodes:
        - {left: -1, right: -1, value: [5, 0, 6]}
`)
	loader := NewFileLoader(dir, nil, 0)

	p, err := loader.Load(context.Background(), &domain.Variant{Name: "rf", ArtifactPath: "rf.yaml", Schema: threeCols})
	require.NoError(t, err)
	assert.Equal(t, domain.ArtifactForest, p.Kind())

	out, err := p.Predict(context.Background(), [][]float64{{100}, {100.5}})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 0.5, 3.5}, out[0])
	assert.Equal(t, []float64{4, 1.5, 4.5}, out[1])
}

func TestFileLoader_Failures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "corrupt.json", `{"format_version": 1, "kind": `)
	writeFile(t, dir, "v2.json", `{"format_version": 2, "kind": "linear", "n_features": 1, "n_outputs": 3}`)
	writeFile(t, dir, "pickle.sav", "\x80\x04\x95")
	writeFile(t, dir, "width.json", `{"format_version": 1, "kind": "linear", "n_features": 1, "n_outputs": 13}`)
	writeFile(t, dir, "names.json", `{"format_version": 1, "kind": "linear", "n_features": 1, "n_outputs": 3,
		"outputs": ["N(%)", "K(%)", "pH"], "linear": {"coef": [[1],[1],[1]], "intercept": [0,0,0]}}`)
	writeFile(t, dir, "nolinear.json", `{"format_version": 1, "kind": "linear", "n_features": 1, "n_outputs": 3}`)
	writeFile(t, dir, "cycle.json", `{"format_version": 1, "kind": "forest", "n_features": 1, "n_outputs": 3,
		"forest": {"trees": [{"nodes": [{"feature": 0, "threshold": 1, "left": 0, "right": 0}]}]}}`)
	writeFile(t, dir, "svm.json", `{"format_version": 1, "kind": "svm", "n_features": 1, "n_outputs": 3}`)

	cases := map[string]error{
		"missing.json":  os.ErrNotExist,
		"corrupt.json":  domain.ErrArtifactFormat,
		"v2.json":       domain.ErrUnsupportedArtifact,
		"pickle.sav":    domain.ErrUnsupportedArtifact,
		"width.json":    domain.ErrArtifactFormat,
		"names.json":    domain.ErrArtifactFormat,
		"nolinear.json": domain.ErrArtifactFormat,
		"cycle.json":    domain.ErrArtifactFormat,
		"svm.json":      domain.ErrUnsupportedArtifact,
	}

	loader := NewFileLoader(dir, nil, 0)
	for name, want := range cases {
		_, err := loader.Load(context.Background(), &domain.Variant{Name: "x", ArtifactPath: name, Schema: threeCols})
		assert.ErrorIs(t, err, want, name)
	}

	_, err := loader.Load(context.Background(), &domain.Variant{Name: "x", Schema: threeCols})
	assert.ErrorIs(t, err, domain.ErrArtifactFormat)
}

func TestFileLoader_KServeURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string][][]float64{"predictions": {{1, 2, 3}}})
	}))
	defer srv.Close()

	dir := t.TempDir()
	writeFile(t, dir, "remote.json", `{"format_version": 1, "kind": "kserve", "kserve": {"url": "`+srv.URL+`", "model": "soil"}}`)
	loader := NewFileLoader(dir, nil, 0)

	p, err := loader.Load(context.Background(), &domain.Variant{Name: "remote", ArtifactPath: "remote.json", Schema: threeCols})
	require.NoError(t, err)
	assert.Equal(t, domain.ArtifactKServe, p.Kind())

	out, err := p.Predict(context.Background(), [][]float64{{4}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}}, out)
}

func TestFileLoader_KServeInferenceService(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "isvc.yaml", `
format_version: 1
kind: kserve
kserve:
  model: soil-rf
  namespace: lab
  inference_service: soil-rf
`)
	client := new(testutil.MockKServeClient)
	client.On("IsAvailable").Return(true)
	client.On("GetStatus", mock.Anything, "lab", "soil-rf").
		Return(&output.KServeStatus{URL: "http://soil-rf.lab.example.com", Ready: true}, nil)

	loader := NewFileLoader(dir, client, 0)
	p, err := loader.Load(context.Background(), &domain.Variant{Name: "isvc", ArtifactPath: "isvc.yaml", Schema: threeCols})
	require.NoError(t, err)
	assert.Equal(t, domain.ArtifactKServe, p.Kind())
	client.AssertExpectations(t)
}

func TestFileLoader_KServeWithoutCluster(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "isvc.json", `{"format_version": 1, "kind": "kserve", "kserve": {"model": "m", "inference_service": "m"}}`)

	_, err := NewFileLoader(dir, nil, 0).Load(context.Background(), &domain.Variant{Name: "isvc", ArtifactPath: "isvc.json", Schema: threeCols})
	assert.ErrorContains(t, err, "disabled")
}

func TestFileLoader_ShippedModels(t *testing.T) {
	loader := NewFileLoader(filepath.Join("..", "..", "..", ".."), nil, 0)
	cases := []domain.Variant{
		{Name: "basic", ArtifactPath: "models/basic-linear.json", Schema: domain.SchemaBasic13},
		{Name: "kesuburan", ArtifactPath: "models/kesuburan.json", Schema: domain.SchemaKesuburan21},
		{Name: "ultisol", ArtifactPath: "models/kesuburan.json", Schema: domain.SchemaUltisol21},
		{Name: "rf", ArtifactPath: "models/rf-forest.yaml", Schema: domain.SchemaRF21},
	}
	for _, v := range cases {
		v := v
		p, err := loader.Load(context.Background(), &v)
		require.NoError(t, err, v.Name)

		out, err := p.Predict(context.Background(), [][]float64{{123.45}})
		require.NoError(t, err, v.Name)
		require.Len(t, out, 1)
		assert.Len(t, out[0], v.Schema.Len(), v.Name)
	}
}

func TestFile_CheckOutputNames(t *testing.T) {
	schema := domain.Schema{Name: "s", Columns: []string{"c(%)", "pH"}}
	f := &File{FormatVersion: 1, Kind: domain.ArtifactLinear, NFeatures: 1, NOutputs: 2}

	f.Outputs = []string{"C(%)", "pH"}
	assert.NoError(t, f.Check(schema))

	f.Outputs = []string{"P(%)", "pH"}
	assert.ErrorIs(t, f.Check(schema), domain.ErrArtifactFormat)
}
