package ports

import (
	"context"

	"soil-nutrient-service/internal/core/domain"
)

// Predictor is a loaded model. It is read-only after load and safe for
// concurrent use.
type Predictor interface {
	// Predict maps a batch of feature rows to a batch of output rows.
	Predict(ctx context.Context, batch [][]float64) ([][]float64, error)

	// Kind names the model family behind the predictor
	Kind() domain.ArtifactKind
}

// ModelLoader turns a variant's artifact into a predictor.
type ModelLoader interface {
	Load(ctx context.Context, variant *domain.Variant) (Predictor, error)
}
