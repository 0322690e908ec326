package services

import (
	"context"
	"fmt"

	"soil-nutrient-service/internal/core/domain"
	"soil-nutrient-service/internal/core/ports/output"
)

// PredictVector runs the model on the single-feature batch [[impedance]] and
// names the only output row after the schema. The predictor must be non-nil.
func PredictVector(ctx context.Context, p ports.Predictor, schema domain.Schema, impedance float64) (vec domain.PredictionVector, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: model panicked: %v", domain.ErrPrediction, r)
		}
	}()

	batch := [][]float64{{impedance}}
	rows, err := p.Predict(ctx, batch)
	if err != nil {
		return domain.PredictionVector{}, fmt.Errorf("%w: %v", domain.ErrPrediction, err)
	}
	if len(rows) != 1 {
		return domain.PredictionVector{}, fmt.Errorf("%w: expected 1 output row, got %d", domain.ErrSchemaMismatch, len(rows))
	}

	row := rows[0]
	if len(row) != schema.Len() {
		return domain.PredictionVector{}, fmt.Errorf("%w: model returned %d values for %d columns",
			domain.ErrSchemaMismatch, len(row), schema.Len())
	}

	out := make([]domain.Measurement, len(row))
	for i, v := range row {
		out[i] = domain.Measurement{Name: schema.Columns[i], Value: v}
	}
	return domain.PredictionVector{Measurements: out}, nil
}
