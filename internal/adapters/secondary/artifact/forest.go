package artifact

import (
	"context"
	"fmt"

	"soil-nutrient-service/internal/core/domain"
)

const leaf = -1

type forestModel struct {
	trees     []TreeSpec
	nFeatures int
	nOutputs  int
}

func newForestModel(spec *ForestSpec, nFeatures, nOutputs int) (*forestModel, error) {
	if spec == nil || len(spec.Trees) == 0 {
		return nil, fmt.Errorf("%w: forest has no trees", domain.ErrArtifactFormat)
	}
	for ti, tree := range spec.Trees {
		if err := checkTree(tree, nFeatures, nOutputs); err != nil {
			return nil, fmt.Errorf("tree %d: %w", ti, err)
		}
	}
	return &forestModel{trees: spec.Trees, nFeatures: nFeatures, nOutputs: nOutputs}, nil
}

// checkTree rejects anything that could loop or index out of range. Children
// always sit after their parent, as in the flat layout exported by trainers.
func checkTree(tree TreeSpec, nFeatures, nOutputs int) error {
	n := len(tree.Nodes)
	if n == 0 {
		return fmt.Errorf("%w: empty tree", domain.ErrArtifactFormat)
	}
	for i, node := range tree.Nodes {
		if node.Left == leaf && node.Right == leaf {
			if len(node.Value) != nOutputs {
				return fmt.Errorf("%w: leaf %d has %d values, want %d", domain.ErrArtifactFormat, i, len(node.Value), nOutputs)
			}
			continue
		}
		if node.Left <= i || node.Right <= i || node.Left >= n || node.Right >= n {
			return fmt.Errorf("%w: node %d has invalid children %d/%d", domain.ErrArtifactFormat, i, node.Left, node.Right)
		}
		if node.Feature < 0 || node.Feature >= nFeatures {
			return fmt.Errorf("%w: node %d splits on feature %d", domain.ErrArtifactFormat, i, node.Feature)
		}
	}
	return nil
}

func (m *forestModel) Kind() domain.ArtifactKind {
	return domain.ArtifactForest
}

func (m *forestModel) Predict(_ context.Context, batch [][]float64) ([][]float64, error) {
	out := make([][]float64, len(batch))
	for r, row := range batch {
		if len(row) != m.nFeatures {
			return nil, fmt.Errorf("row %d has %d features, model expects %d", r, len(row), m.nFeatures)
		}
		sum := make([]float64, m.nOutputs)
		for _, tree := range m.trees {
			for j, v := range evalTree(tree, row) {
				sum[j] += v
			}
		}
		for j := range sum {
			sum[j] /= float64(len(m.trees))
		}
		out[r] = sum
	}
	return out, nil
}

func evalTree(tree TreeSpec, x []float64) []float64 {
	i := 0
	for {
		node := tree.Nodes[i]
		if node.Left == leaf {
			return node.Value
		}
		if x[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}
