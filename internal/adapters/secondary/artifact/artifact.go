package artifact

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"soil-nutrient-service/internal/core/domain"
)

// FormatVersion is the only artifact layout this build understands.
const FormatVersion = 1

// File is the on-disk model artifact.
type File struct {
	FormatVersion int                 `json:"format_version" yaml:"format_version"`
	Kind          domain.ArtifactKind `json:"kind" yaml:"kind"`
	NFeatures     int                 `json:"n_features" yaml:"n_features"`
	NOutputs      int                 `json:"n_outputs" yaml:"n_outputs"`
	Outputs       []string            `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Linear        *LinearSpec         `json:"linear,omitempty" yaml:"linear,omitempty"`
	Forest        *ForestSpec         `json:"forest,omitempty" yaml:"forest,omitempty"`
	KServe        *KServeSpec         `json:"kserve,omitempty" yaml:"kserve,omitempty"`
}

// LinearSpec holds a multi-output linear regressor: y = coef·x + intercept.
type LinearSpec struct {
	Coef      [][]float64 `json:"coef" yaml:"coef"`
	Intercept []float64   `json:"intercept" yaml:"intercept"`
}

// ForestSpec holds a random forest regressor with multi-output leaves.
type ForestSpec struct {
	Trees []TreeSpec `json:"trees" yaml:"trees"`
}

// TreeSpec is a tree in flat array form; node 0 is the root.
type TreeSpec struct {
	Nodes []NodeSpec `json:"nodes" yaml:"nodes"`
}

// NodeSpec is a split when Left and Right are set, a leaf when both are -1.
// Samples with x[Feature] <= Threshold go left.
type NodeSpec struct {
	Feature   int       `json:"feature" yaml:"feature"`
	Threshold float64   `json:"threshold" yaml:"threshold"`
	Left      int       `json:"left" yaml:"left"`
	Right     int       `json:"right" yaml:"right"`
	Value     []float64 `json:"value,omitempty" yaml:"value,omitempty"`
}

// KServeSpec points at a remote model. Either URL or InferenceService must be
// set; InferenceService is resolved through Kubernetes at load time.
type KServeSpec struct {
	URL              string `json:"url,omitempty" yaml:"url,omitempty"`
	Model            string `json:"model" yaml:"model"`
	Namespace        string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	InferenceService string `json:"inference_service,omitempty" yaml:"inference_service,omitempty"`
}

// Decode parses an artifact; the extension of name picks JSON or YAML.
func Decode(name string, data []byte) (*File, error) {
	var f File
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrArtifactFormat, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrArtifactFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown extension %q", domain.ErrUnsupportedArtifact, filepath.Ext(name))
	}
	return &f, nil
}

// Check validates the header against the schema the variant expects.
func (f *File) Check(schema domain.Schema) error {
	if f.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: format_version %d, want %d", domain.ErrUnsupportedArtifact, f.FormatVersion, FormatVersion)
	}
	if !f.Kind.IsValid() {
		return fmt.Errorf("%w: kind %q", domain.ErrUnsupportedArtifact, f.Kind)
	}
	if f.Kind == domain.ArtifactKServe {
		return nil
	}
	if f.NFeatures != 1 {
		return fmt.Errorf("%w: model takes %d features, impedance is 1", domain.ErrArtifactFormat, f.NFeatures)
	}
	if f.NOutputs != schema.Len() {
		return fmt.Errorf("%w: model has %d outputs, schema %s has %d",
			domain.ErrArtifactFormat, f.NOutputs, schema.Name, schema.Len())
	}
	// Output names identify columns; letter case is a display choice of the
	// schema, so one artifact can back differently labelled variants.
	if len(f.Outputs) > 0 {
		if len(f.Outputs) != schema.Len() {
			return fmt.Errorf("%w: %d output names for %d columns", domain.ErrArtifactFormat, len(f.Outputs), schema.Len())
		}
		for i, name := range f.Outputs {
			if !strings.EqualFold(name, schema.Columns[i]) {
				return fmt.Errorf("%w: output %d is %q, schema expects %q",
					domain.ErrArtifactFormat, i, name, schema.Columns[i])
			}
		}
	}
	return nil
}
