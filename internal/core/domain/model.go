package domain

import "time"

// ArtifactKind names the model family stored in an artifact.
type ArtifactKind string

const (
	ArtifactLinear ArtifactKind = "linear"
	ArtifactForest ArtifactKind = "forest"
	ArtifactKServe ArtifactKind = "kserve"
)

// IsValid checks if the kind is known
func (k ArtifactKind) IsValid() bool {
	return k == ArtifactLinear || k == ArtifactForest || k == ArtifactKServe
}

// ModelStatus describes the load outcome of a variant's model.
type ModelStatus struct {
	Variant   string       `json:"variant"`
	Available bool         `json:"available"`
	Kind      ArtifactKind `json:"kind,omitempty"`
	Error     string       `json:"error,omitempty"`
	LoadedAt  time.Time    `json:"loaded_at"`
}
