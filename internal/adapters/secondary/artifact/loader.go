package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"soil-nutrient-service/internal/adapters/secondary/kserve"
	"soil-nutrient-service/internal/core/domain"
	output "soil-nutrient-service/internal/core/ports/output"
)

type fileLoader struct {
	baseDir       string
	kserveClient  output.KServeClient
	remoteTimeout time.Duration
}

// NewFileLoader loads artifacts from disk. Relative artifact paths resolve
// against baseDir. kserveClient may be nil when no variant uses an
// InferenceService.
func NewFileLoader(baseDir string, kserveClient output.KServeClient, remoteTimeout time.Duration) output.ModelLoader {
	return &fileLoader{
		baseDir:       baseDir,
		kserveClient:  kserveClient,
		remoteTimeout: remoteTimeout,
	}
}

func (l *fileLoader) Load(ctx context.Context, variant *domain.Variant) (output.Predictor, error) {
	path := variant.ArtifactPath
	if path == "" {
		return nil, fmt.Errorf("%w: no artifact path configured", domain.ErrArtifactFormat)
	}
	if !filepath.IsAbs(path) && l.baseDir != "" {
		path = filepath.Join(l.baseDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	f, err := Decode(path, data)
	if err != nil {
		return nil, err
	}
	if err := f.Check(variant.Schema); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"variant": variant.Name,
		"path":    path,
		"kind":    f.Kind,
	}).Debug("artifact decoded")

	switch f.Kind {
	case domain.ArtifactLinear:
		return newLinearModel(f.Linear, f.NFeatures, f.NOutputs)
	case domain.ArtifactForest:
		return newForestModel(f.Forest, f.NFeatures, f.NOutputs)
	case domain.ArtifactKServe:
		return l.remote(ctx, f.KServe)
	default:
		return nil, fmt.Errorf("%w: kind %q", domain.ErrUnsupportedArtifact, f.Kind)
	}
}

func (l *fileLoader) remote(ctx context.Context, spec *KServeSpec) (output.Predictor, error) {
	if spec == nil || spec.Model == "" {
		return nil, fmt.Errorf("%w: kserve section needs a model name", domain.ErrArtifactFormat)
	}

	url := spec.URL
	if url == "" {
		if spec.InferenceService == "" {
			return nil, fmt.Errorf("%w: kserve section needs url or inference_service", domain.ErrArtifactFormat)
		}
		resolved, err := kserve.ResolveURL(ctx, l.kserveClient, spec.Namespace, spec.InferenceService)
		if err != nil {
			return nil, err
		}
		url = resolved
	}
	return kserve.NewPredictor(url, spec.Model, l.remoteTimeout), nil
}
