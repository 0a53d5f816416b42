package ensemble

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"valorvista/server/internal/models"
	"valorvista/server/internal/transform"
)

// Artifact is the versioned model bundle produced by the training pipeline:
// the fitted ensemble, its paired feature transform, and the global
// feature-importance table. It is loaded once at startup and treated as
// read-only for the process lifetime.
type Artifact struct {
	Version   string    `json:"version"`
	TrainedAt time.Time `json:"trained_at"`

	Model     *Model                 `json:"model"`
	Transform *transform.Transformer `json:"transform"`

	// Global importance weights, non-negative and summing to 1, computed
	// from the fitted ensemble at training time.
	Importance map[string]float64 `json:"feature_importance"`

	rankOnce sync.Once
	ranked   []models.KeyFactor
}

// LoadArtifact reads and validates a model artifact bundle from disk.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}

	if err := artifact.Validate(); err != nil {
		return nil, err
	}
	return &artifact, nil
}

// Validate checks that the bundle carries both capability objects and that
// they agree on the feature vector width.
func (a *Artifact) Validate() error {
	if a.Model == nil || a.Model.NumStages() == 0 {
		return fmt.Errorf("artifact %s: missing or empty ensemble", a.Version)
	}
	if a.Transform == nil {
		return fmt.Errorf("artifact %s: missing feature transform", a.Version)
	}
	if err := a.Transform.Validate(); err != nil {
		return fmt.Errorf("artifact %s: %w", a.Version, err)
	}
	return nil
}

// KeyFactors returns the global importance ranking, descending by weight.
// The ranking is computed once and cached; it is identical for every request.
func (a *Artifact) KeyFactors() []models.KeyFactor {
	a.rankOnce.Do(func() {
		a.ranked = make([]models.KeyFactor, 0, len(a.Importance))
		for name, weight := range a.Importance {
			a.ranked = append(a.ranked, models.KeyFactor{Feature: name, Importance: weight})
		}
		sort.Slice(a.ranked, func(i, j int) bool {
			if a.ranked[i].Importance != a.ranked[j].Importance {
				return a.ranked[i].Importance > a.ranked[j].Importance
			}
			return a.ranked[i].Feature < a.ranked[j].Feature
		})
	})
	return a.ranked
}

// TopFactors returns the first min(n, total) entries of the ranking.
func (a *Artifact) TopFactors(n int) []models.KeyFactor {
	ranked := a.KeyFactors()
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}
