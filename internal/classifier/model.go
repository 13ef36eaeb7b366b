// Package classifier adapts externally supplied models into a probability
// of the phishing class.
package classifier

import (
	"context"
	"math"
)

// Model is a loaded classifier
type Model interface {
	Name() string
}

// ProbabilityModel returns class probabilities; index 1 is the phishing class
type ProbabilityModel interface {
	Model
	PredictProba(ctx context.Context, features []float64) ([]float64, error)
}

// LabelModel returns a class label, 1 for phishing
type LabelModel interface {
	Model
	Predict(ctx context.Context, features []float64) (float64, error)
}

// Metadata describes a model file
type Metadata struct {
	ModelType    string   `json:"model_type" yaml:"model_type"`
	Version      string   `json:"version" yaml:"version"`
	LastUpdated  string   `json:"last_updated" yaml:"last_updated"`
	FeaturesUsed []string `json:"features_used" yaml:"features_used"`
	Description  string   `json:"description" yaml:"description"`
}

// LogisticModel is a linear model over the feature vector
type LogisticModel struct {
	Weights  []float64
	Bias     float64
	Metadata Metadata
}

// Name implements Model
func (m *LogisticModel) Name() string {
	if m.Metadata.Version == "" {
		return "logistic"
	}
	return "logistic-" + m.Metadata.Version
}

// PredictProba implements ProbabilityModel
func (m *LogisticModel) PredictProba(_ context.Context, features []float64) ([]float64, error) {
	z := m.Bias
	for i, w := range m.Weights {
		if i < len(features) {
			z += w * features[i]
		}
	}
	p := 1 / (1 + math.Exp(-z))
	return []float64{1 - p, p}, nil
}

// RuleModel labels an email phishing when enough features are set
type RuleModel struct {
	Threshold int
	Metadata  Metadata
}

// Name implements Model
func (m *RuleModel) Name() string {
	if m.Metadata.Version == "" {
		return "rules"
	}
	return "rules-" + m.Metadata.Version
}

// Predict implements LabelModel
func (m *RuleModel) Predict(_ context.Context, features []float64) (float64, error) {
	active := 0
	for _, f := range features {
		if f >= 0.5 {
			active++
		}
	}
	if active >= m.Threshold {
		return 1, nil
	}
	return 0, nil
}

// DefaultDimension is the feature count of the built-in model
const DefaultDimension = 10

// DefaultModel is used when no model file is configured. Every feature
// carries the same weight: an empty vector scores low and a full one high.
func DefaultModel() *LogisticModel {
	weights := make([]float64, DefaultDimension)
	for i := range weights {
		weights[i] = 1
	}
	return &LogisticModel{
		Weights: weights,
		Bias:    -2.5,
		Metadata: Metadata{
			ModelType:   "logistic",
			Version:     "builtin",
			Description: "Equal-weight default model",
		},
	}
}
