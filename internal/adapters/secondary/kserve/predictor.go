package kserve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"soil-nutrient-service/internal/core/domain"
	output "soil-nutrient-service/internal/core/ports/output"
)

// v1Request and v1Response follow the KServe V1 inference protocol.
type v1Request struct {
	Instances [][]float64 `json:"instances"`
}

type v1Response struct {
	Predictions [][]float64 `json:"predictions"`
}

type predictor struct {
	endpoint string
	client   *http.Client
}

// NewPredictor calls {baseURL}/v1/models/{model}:predict for every batch.
func NewPredictor(baseURL, model string, timeout time.Duration) output.Predictor {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &predictor{
		endpoint: fmt.Sprintf("%s/v1/models/%s:predict", strings.TrimRight(baseURL, "/"), model),
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *predictor) Kind() domain.ArtifactKind {
	return domain.ArtifactKServe
}

func (p *predictor) Predict(ctx context.Context, batch [][]float64) ([][]float64, error) {
	body, err := json.Marshal(v1Request{Instances: batch})
	if err != nil {
		return nil, fmt.Errorf("marshal instances: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.WithField("url", p.endpoint).Debug("forwarding prediction to kserve")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("predict request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out v1Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode predictions: %w", err)
	}
	return out.Predictions, nil
}

// ResolveURL returns the serving URL of a ready InferenceService.
func ResolveURL(ctx context.Context, client output.KServeClient, namespace, name string) (string, error) {
	if client == nil || !client.IsAvailable() {
		return "", fmt.Errorf("resolve inferenceservice %s: kubernetes integration disabled", name)
	}
	status, err := client.GetStatus(ctx, namespace, name)
	if err != nil {
		return "", err
	}
	if !status.Ready {
		if status.Error != "" {
			return "", fmt.Errorf("inferenceservice %s not ready: %s", name, status.Error)
		}
		return "", fmt.Errorf("inferenceservice %s not ready", name)
	}
	if status.URL == "" {
		return "", fmt.Errorf("inferenceservice %s has no url", name)
	}
	return status.URL, nil
}
