package artifact

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"soil-nutrient-service/internal/core/domain"
)

type linearModel struct {
	coef      *mat.Dense // outputs x features
	intercept []float64
}

func newLinearModel(spec *LinearSpec, nFeatures, nOutputs int) (*linearModel, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: linear section missing", domain.ErrArtifactFormat)
	}
	if len(spec.Coef) != nOutputs {
		return nil, fmt.Errorf("%w: coef has %d rows, want %d", domain.ErrArtifactFormat, len(spec.Coef), nOutputs)
	}
	if len(spec.Intercept) != nOutputs {
		return nil, fmt.Errorf("%w: intercept has %d values, want %d", domain.ErrArtifactFormat, len(spec.Intercept), nOutputs)
	}

	data := make([]float64, 0, nOutputs*nFeatures)
	for i, row := range spec.Coef {
		if len(row) != nFeatures {
			return nil, fmt.Errorf("%w: coef row %d has %d values, want %d", domain.ErrArtifactFormat, i, len(row), nFeatures)
		}
		data = append(data, row...)
	}

	intercept := make([]float64, nOutputs)
	copy(intercept, spec.Intercept)
	return &linearModel{
		coef:      mat.NewDense(nOutputs, nFeatures, data),
		intercept: intercept,
	}, nil
}

func (m *linearModel) Kind() domain.ArtifactKind {
	return domain.ArtifactLinear
}

func (m *linearModel) Predict(_ context.Context, batch [][]float64) ([][]float64, error) {
	nOut, nFeat := m.coef.Dims()
	if len(batch) == 0 {
		return [][]float64{}, nil
	}

	data := make([]float64, 0, len(batch)*nFeat)
	for i, row := range batch {
		if len(row) != nFeat {
			return nil, fmt.Errorf("row %d has %d features, model expects %d", i, len(row), nFeat)
		}
		data = append(data, row...)
	}
	x := mat.NewDense(len(batch), nFeat, data)

	var y mat.Dense
	y.Mul(x, m.coef.T())

	out := make([][]float64, len(batch))
	for i := range out {
		out[i] = make([]float64, nOut)
		for j := 0; j < nOut; j++ {
			out[i][j] = y.At(i, j) + m.intercept[j]
		}
	}
	return out, nil
}
