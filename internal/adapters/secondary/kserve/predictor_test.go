package kserve

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soil-nutrient-service/internal/core/domain"
)

func TestPredictor_V1Protocol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/models/soil-rf:predict", r.URL.Path)

		var req v1Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, [][]float64{{123.45}}, req.Instances)

		_ = json.NewEncoder(w).Encode(v1Response{Predictions: [][]float64{{1, 2, 3}}})
	}))
	defer srv.Close()

	p := NewPredictor(srv.URL+"/", "soil-rf", 0)
	assert.Equal(t, domain.ArtifactKServe, p.Kind())

	out, err := p.Predict(context.Background(), [][]float64{{123.45}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}}, out)
}

func TestPredictor_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expected 2 features", http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewPredictor(srv.URL, "soil-rf", 0)
	_, err := p.Predict(context.Background(), [][]float64{{1}})
	assert.ErrorContains(t, err, "status 400")
	assert.ErrorContains(t, err, "expected 2 features")
}

func TestPredictor_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	p := NewPredictor(srv.URL, "soil-rf", 0)
	_, err := p.Predict(context.Background(), [][]float64{{1}})
	assert.ErrorContains(t, err, "decode predictions")
}
