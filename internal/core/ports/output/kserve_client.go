package ports

import (
	"context"
)

// KServeStatus is where a remote soil model is served and whether it can
// take predictions. Error carries the Ready condition's message or reason.
type KServeStatus struct {
	URL   string
	Ready bool
	Error string
}

// KServeClient resolves remote model artifacts to serving URLs.
type KServeClient interface {
	GetStatus(ctx context.Context, namespace, name string) (*KServeStatus, error)

	// IsAvailable is false when Kubernetes integration is switched off.
	IsAvailable() bool
}
