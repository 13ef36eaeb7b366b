package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/metrics"
)

// NeutralProbability is returned whenever no model output is usable
const NeutralProbability = 0.5

var (
	errUnsupportedModel = errors.New("model exposes neither probabilities nor labels")
	errShortProbability = errors.New("model returned fewer than two class probabilities")
)

// handle pairs a model with the vector length it expects
type handle struct {
	model     Model
	dimension int
}

// Adapter scores feature vectors with the current model. The model can be
// swapped at any time; calls in flight keep the model they started with.
type Adapter struct {
	current atomic.Pointer[handle]
	timeout time.Duration
	logger  *zap.Logger
}

// NewAdapter creates an adapter with no model loaded
func NewAdapter(logger *zap.Logger, timeout time.Duration) *Adapter {
	return &Adapter{
		timeout: timeout,
		logger:  logger,
	}
}

// Swap replaces the model and its dimensionality together. A nil model unloads.
func (a *Adapter) Swap(model Model, dimension int) {
	if model == nil {
		a.current.Store(nil)
		a.logger.Info("Classifier model unloaded")
		return
	}

	a.current.Store(&handle{model: model, dimension: dimension})
	metrics.RecordModelSwap(model.Name())
	a.logger.Info("Classifier model loaded",
		zap.String("model", model.Name()),
		zap.Int("dimension", dimension))
}

// Current returns the loaded model and its dimensionality
func (a *Adapter) Current() (Model, int) {
	h := a.current.Load()
	if h == nil {
		return nil, 0
	}
	return h.model, h.dimension
}

// Score returns the phishing probability for a vector
func (a *Adapter) Score(ctx context.Context, vector core.FeatureVector) float64 {
	return a.Evaluate(ctx, vector).Probability
}

// Evaluate implements core.Scorer
func (a *Adapter) Evaluate(ctx context.Context, vector core.FeatureVector) core.Scoring {
	h := a.current.Load()
	if h == nil {
		return a.fallback("none", "no_model", nil)
	}

	name := h.model.Name()
	features := Reconcile(vector, h.dimension)
	if len(features) != len(vector) {
		a.logger.Debug("Reconciled feature vector",
			zap.String("model", name),
			zap.Int("got", len(vector)),
			zap.Int("want", h.dimension))
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	p, err := invoke(ctx, h.model, features)
	switch {
	case errors.Is(err, errUnsupportedModel):
		return a.fallback(name, "unsupported", err)
	case err != nil:
		return a.fallback(name, "error", err)
	case math.IsNaN(p):
		return a.fallback(name, "nan", errors.New("model returned NaN"))
	}

	return core.Scoring{Probability: clamp(p), Model: name}
}

func (a *Adapter) fallback(model, reason string, err error) core.Scoring {
	if err != nil {
		a.logger.Warn("Classifier fell back to neutral probability",
			zap.String("reason", reason),
			zap.Error(&core.ClassifierError{Model: model, Err: err}))
	}
	metrics.RecordClassifierFallback(reason)
	return core.Scoring{Probability: NeutralProbability, Model: model, Fallback: reason}
}

// invoke calls whichever prediction method the model offers
func invoke(ctx context.Context, model Model, features []float64) (p float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panicked: %v", r)
		}
	}()

	switch m := model.(type) {
	case ProbabilityModel:
		probs, err := m.PredictProba(ctx, features)
		if err != nil {
			return 0, err
		}
		if len(probs) < 2 {
			return 0, errShortProbability
		}
		return probs[1], nil
	case LabelModel:
		return m.Predict(ctx, features)
	default:
		return 0, errUnsupportedModel
	}
}

// Reconcile truncates or zero-pads a vector to n elements, keeping the
// leading ones. n <= 0 leaves the length unchanged.
func Reconcile(vector []float64, n int) []float64 {
	if n <= 0 {
		n = len(vector)
	}
	out := make([]float64, n)
	copy(out, vector)
	return out
}

func clamp(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}
