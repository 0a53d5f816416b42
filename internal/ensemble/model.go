package ensemble

// Model is a fitted gradient-boosting regression ensemble. Prediction starts
// from InitValue and adds each tree's output scaled by LearningRate; the model
// is read-only after load and safe for concurrent use.
type Model struct {
	InitValue    float64 `json:"init_value"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []Tree  `json:"trees"`
}

// NumStages returns the number of boosting stages.
func (m *Model) NumStages() int {
	return len(m.Trees)
}

// Predict returns the ensemble's raw output for one feature vector. The
// target was log1p-transformed at training time, so callers must inverse-
// transform before reporting a price.
func (m *Model) Predict(x []float64) float64 {
	out := m.InitValue
	for i := range m.Trees {
		out += m.LearningRate * m.Trees[i].Predict(x)
	}
	return out
}

// StagedPredict returns the cumulative raw prediction after each boosting
// stage. The sequence converges toward Predict's output by construction; the
// last element equals it exactly.
func (m *Model) StagedPredict(x []float64) []float64 {
	staged := make([]float64, len(m.Trees))
	out := m.InitValue
	for i := range m.Trees {
		out += m.LearningRate * m.Trees[i].Predict(x)
		staged[i] = out
	}
	return staged
}
