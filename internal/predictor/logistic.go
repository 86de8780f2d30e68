package predictor

import (
	"context"
	"fmt"
	"maps"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"creditrisk/internal/batch"
	dErrors "creditrisk/pkg/domain-errors"
)

// LogisticModel is a linear model artifact. Numeric features read their
// column as a float; categorical features map the lowercased cell through
// Categories before weighting.
//
//	name: loan-default-v1
//	intercept: -1.2
//	weights:
//	  income: -0.00002
//	  credit_history: 1.8
//	categories:
//	  credit_history: {good: 0, bad: 1}
type LogisticModel struct {
	Name       string                        `yaml:"name" json:"name"`
	Intercept  float64                       `yaml:"intercept" json:"intercept"`
	Weights    map[string]float64            `yaml:"weights" json:"weights"`
	Categories map[string]map[string]float64 `yaml:"categories" json:"categories"`
}

// Logistic scores records with a LogisticModel: p = 1 / (1 + e^-z) where
// z = intercept + sum(weight * value).
type Logistic struct {
	model    LogisticModel
	features []string
}

// LoadLogistic reads a YAML or JSON artifact from path.
func LoadLogistic(path string) (*Logistic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	l, err := ParseLogistic(data)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return l, nil
}

// ParseLogistic decodes an artifact. JSON parses as YAML.
func ParseLogistic(data []byte) (*Logistic, error) {
	var m LogisticModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return NewLogistic(m)
}

// NewLogistic checks the model and fixes its feature order. The model's maps
// are copied, so later changes by the caller do not affect the predictor.
func NewLogistic(m LogisticModel) (*Logistic, error) {
	if len(m.Weights) == 0 {
		return nil, fmt.Errorf("model has no weights")
	}
	if !finite(m.Intercept) {
		return nil, fmt.Errorf("model intercept is not finite")
	}
	for name, w := range m.Weights {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("model has an unnamed feature")
		}
		if !finite(w) {
			return nil, fmt.Errorf("weight for %q is not finite", name)
		}
	}
	categories := make(map[string]map[string]float64, len(m.Categories))
	for name, levels := range m.Categories {
		if _, ok := m.Weights[name]; !ok {
			return nil, fmt.Errorf("categories given for unweighted feature %q", name)
		}
		normalized := make(map[string]float64, len(levels))
		for level, v := range levels {
			normalized[strings.ToLower(strings.TrimSpace(level))] = v
		}
		categories[name] = normalized
	}
	m.Weights = maps.Clone(m.Weights)
	m.Categories = categories
	if m.Name == "" {
		m.Name = "logistic"
	}
	return &Logistic{
		model:    m,
		features: slices.Sorted(maps.Keys(m.Weights)),
	}, nil
}

func (l *Logistic) Name() string { return l.model.Name }

// Features lists the columns the model reads, sorted.
func (l *Logistic) Features() []string { return slices.Clone(l.features) }

// Predict evaluates the model on r.
//
// Errors: CodeValidation when a feature column is missing, not numeric, or
// holds an unknown category.
func (l *Logistic) Predict(_ context.Context, r batch.Record) (float64, error) {
	z := l.model.Intercept
	for _, name := range l.features {
		x, err := l.value(r, name)
		if err != nil {
			return 0, err
		}
		z += l.model.Weights[name] * x
	}
	return 1 / (1 + math.Exp(-z)), nil
}

func (l *Logistic) value(r batch.Record, name string) (float64, error) {
	raw, ok := r.Get(name)
	if !ok {
		return 0, missingColumn(name)
	}
	raw = strings.TrimSpace(raw)
	if levels, ok := l.model.Categories[name]; ok {
		v, ok := levels[strings.ToLower(raw)]
		if !ok {
			return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown %s %q", name, raw))
		}
		return v, nil
	}
	x, err := strconv.ParseFloat(raw, 64)
	if err != nil || !finite(x) {
		return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be numeric, got %q", name, raw))
	}
	return x, nil
}

// Importance returns each feature's share of the total absolute weight.
func (l *Logistic) Importance() map[string]float64 {
	var total float64
	for _, w := range l.model.Weights {
		total += math.Abs(w)
	}
	out := make(map[string]float64, len(l.model.Weights))
	for name, w := range l.model.Weights {
		if total > 0 {
			out[name] = math.Abs(w) / total
		}
	}
	return out
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
