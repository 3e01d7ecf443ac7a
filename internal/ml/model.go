package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Model is a pre-trained binary logistic-regression classifier. The positive
// class is "scam".
type Model struct {
	coefficients []float64
	intercept    float64
}

type modelArtifact struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// LoadModel reads a model artifact from disk
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}

	if len(artifact.Coefficients) == 0 {
		return nil, fmt.Errorf("model artifact %s has no coefficients", path)
	}

	return &Model{
		coefficients: artifact.Coefficients,
		intercept:    artifact.Intercept,
	}, nil
}

// Features returns the number of input features the model expects
func (m *Model) Features() int {
	return len(m.coefficients)
}

// Probability returns the positive-class probability for a sparse feature
// vector keyed by feature index
func (m *Model) Probability(features map[int]float64) float64 {
	z := m.intercept
	for idx, value := range features {
		if idx >= 0 && idx < len(m.coefficients) {
			z += m.coefficients[idx] * value
		}
	}
	return 1.0 / (1.0 + math.Exp(-z))
}
