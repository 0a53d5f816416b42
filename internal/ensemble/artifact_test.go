package ensemble

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valorvista/server/internal/transform"
)

func testTransform() *transform.Transformer {
	return &transform.Transformer{Features: []transform.FeatureSpec{
		{Name: "GrLivArea", Kind: transform.KindNumeric, Mean: 1500, Std: 500, Fill: 1450},
		{Name: "ExterQual", Kind: transform.KindOrdinal, Scale: transform.ScaleQuality, Mean: 3, Std: 0.6},
		{Name: "Neighborhood", Kind: transform.KindCategory, Levels: map[string]int{"NAmes": 12, "CollgCr": 5}},
	}}
}

func testArtifact() *Artifact {
	return &Artifact{
		Version:   "2024.1",
		Model:     &Model{InitValue: 12, LearningRate: 0.1, Trees: []Tree{stumpTree(0, 0, -0.2, 0.2)}},
		Transform: testTransform(),
		Importance: map[string]float64{
			"GrLivArea":    0.45,
			"ExterQual":    0.30,
			"Neighborhood": 0.20,
		},
	}
}

func TestLoadArtifactRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")

	data, err := json.Marshal(testArtifact())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	loaded, err := LoadArtifact(path)
	require.NoError(t, err)

	assert.Equal(t, "2024.1", loaded.Version)
	assert.Equal(t, 1, loaded.Model.NumStages())
	assert.Len(t, loaded.Transform.Features, 3)
	assert.InDelta(t, 0.45, loaded.Importance["GrLivArea"], 1e-12)
}

func TestLoadArtifactMissingFile(t *testing.T) {
	_, err := LoadArtifact(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadArtifactCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadArtifact(path)
	assert.Error(t, err)
}

func TestArtifactValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Artifact)
	}{
		{"missing model", func(a *Artifact) { a.Model = nil }},
		{"empty ensemble", func(a *Artifact) { a.Model.Trees = nil }},
		{"missing transform", func(a *Artifact) { a.Transform = nil }},
		{"bad ordinal scale", func(a *Artifact) { a.Transform.Features[1].Scale = "bogus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact := testArtifact()
			tt.mutate(artifact)
			assert.Error(t, artifact.Validate())
		})
	}

	assert.NoError(t, testArtifact().Validate())
}

func TestKeyFactorsRanking(t *testing.T) {
	artifact := testArtifact()

	ranked := artifact.KeyFactors()
	require.Len(t, ranked, 3)

	sum := 0.0
	for i, kf := range ranked {
		assert.GreaterOrEqual(t, kf.Importance, 0.0)
		if i > 0 {
			assert.LessOrEqual(t, kf.Importance, ranked[i-1].Importance)
		}
		sum += kf.Importance
	}
	assert.LessOrEqual(t, sum, 1.0)
	assert.Equal(t, "GrLivArea", ranked[0].Feature)
}

func TestTopFactorsLength(t *testing.T) {
	artifact := testArtifact()

	assert.Len(t, artifact.TopFactors(2), 2)
	assert.Len(t, artifact.TopFactors(10), 3) // min(n, total)
	assert.Len(t, artifact.TopFactors(0), 0)
}
