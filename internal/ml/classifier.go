// Package ml wraps the pre-trained text classifier: a frozen TF-IDF
// vectorizer plus a logistic-regression model, exported as JSON artifacts at
// training time. Both artifacts must load successfully before the service
// accepts requests.
package ml

import (
	"fmt"

	"scamshield/internal/config"
)

// Classifier scores raw text with the loaded vectorizer and model
type Classifier struct {
	vectorizer *Vectorizer
	model      *Model
}

// Load reads both artifacts and verifies they agree on feature count
func Load(cfg config.ModelConfig) (*Classifier, error) {
	vectorizer, err := LoadVectorizer(cfg.VectorizerPath)
	if err != nil {
		return nil, err
	}

	model, err := LoadModel(cfg.ClassifierPath)
	if err != nil {
		return nil, err
	}

	if vectorizer.Features() != model.Features() {
		return nil, fmt.Errorf("artifact mismatch: vectorizer has %d features, model expects %d",
			vectorizer.Features(), model.Features())
	}

	return &Classifier{vectorizer: vectorizer, model: model}, nil
}

// NewClassifier assembles a classifier from already-loaded parts
func NewClassifier(vectorizer *Vectorizer, model *Model) *Classifier {
	return &Classifier{vectorizer: vectorizer, model: model}
}

// Score returns the scam probability in [0,1] for the given text
func (c *Classifier) Score(text string) float64 {
	return c.model.Probability(c.vectorizer.Transform(text))
}
