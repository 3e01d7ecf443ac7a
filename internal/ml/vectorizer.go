package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
)

// Tokens of two or more word characters, matching the vocabulary's
// tokenization at training time.
var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// Vectorizer converts raw text into a sparse TF-IDF feature vector using a
// vocabulary and IDF weights frozen at training time. Out-of-vocabulary
// tokens are ignored.
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

type vectorizerArtifact struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// LoadVectorizer reads a vectorizer artifact from disk
func LoadVectorizer(path string) (*Vectorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vectorizer artifact: %w", err)
	}

	var artifact vectorizerArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse vectorizer artifact: %w", err)
	}

	if len(artifact.Vocabulary) == 0 {
		return nil, fmt.Errorf("vectorizer artifact %s has an empty vocabulary", path)
	}
	if len(artifact.IDF) != len(artifact.Vocabulary) {
		return nil, fmt.Errorf("vectorizer artifact %s is inconsistent: %d vocabulary terms but %d idf weights",
			path, len(artifact.Vocabulary), len(artifact.IDF))
	}
	for term, idx := range artifact.Vocabulary {
		if idx < 0 || idx >= len(artifact.IDF) {
			return nil, fmt.Errorf("vectorizer artifact %s: term %q has out-of-range index %d", path, term, idx)
		}
	}

	return &Vectorizer{
		vocabulary: artifact.Vocabulary,
		idf:        artifact.IDF,
	}, nil
}

// Features returns the number of features in the vocabulary
func (v *Vectorizer) Features() int {
	return len(v.idf)
}

// Transform converts text into an L2-normalized sparse TF-IDF vector keyed
// by feature index
func (v *Vectorizer) Transform(text string) map[int]float64 {
	counts := make(map[int]int)
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if idx, ok := v.vocabulary[token]; ok {
			counts[idx]++
		}
	}

	vector := make(map[int]float64, len(counts))
	var sumSquares float64
	for idx, count := range counts {
		weight := float64(count) * v.idf[idx]
		vector[idx] = weight
		sumSquares += weight * weight
	}

	if sumSquares > 0 {
		norm := math.Sqrt(sumSquares)
		for idx := range vector {
			vector[idx] /= norm
		}
	}

	return vector
}
