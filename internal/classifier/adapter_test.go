package classifier

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
)

type probaStub struct {
	probs []float64
	err   error
	seen  []float64
}

func (m *probaStub) Name() string { return "proba-stub" }

func (m *probaStub) PredictProba(_ context.Context, features []float64) ([]float64, error) {
	m.seen = features
	return m.probs, m.err
}

type labelStub struct{ label float64 }

func (m labelStub) Name() string { return "label-stub" }

func (m labelStub) Predict(context.Context, []float64) (float64, error) { return m.label, nil }

type opaqueStub struct{}

func (opaqueStub) Name() string { return "opaque" }

type panicStub struct{}

func (panicStub) Name() string { return "panics" }

func (panicStub) Predict(context.Context, []float64) (float64, error) { panic("boom") }

func newTestAdapter() *Adapter {
	return NewAdapter(zap.NewNop(), 0)
}

func TestScoreWithoutModelIsNeutral(t *testing.T) {
	a := newTestAdapter()

	scoring := a.Evaluate(context.Background(), core.FeatureVector{1, 1, 1})
	assert.Equal(t, 0.5, scoring.Probability)
	assert.Equal(t, "no_model", scoring.Fallback)
}

func TestScoreUsesPositiveClassProbability(t *testing.T) {
	a := newTestAdapter()
	a.Swap(&probaStub{probs: []float64{0.2, 0.8}}, 10)

	scoring := a.Evaluate(context.Background(), make(core.FeatureVector, 10))
	assert.Equal(t, 0.8, scoring.Probability)
	assert.Equal(t, "proba-stub", scoring.Model)
	assert.Empty(t, scoring.Fallback)
}

func TestScoreReconcilesVectorLength(t *testing.T) {
	a := newTestAdapter()
	model := &probaStub{probs: []float64{0.5, 0.5}}

	a.Swap(model, 12)
	a.Score(context.Background(), core.FeatureVector{1, 1, 1, 1, 1, 1, 1, 1, 1, 1})
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0}, model.seen)

	a.Swap(model, 4)
	a.Score(context.Background(), core.FeatureVector{1, 0, 1, 0, 1, 1})
	assert.Equal(t, []float64{1, 0, 1, 0}, model.seen)
}

func TestScoreLabelModel(t *testing.T) {
	a := newTestAdapter()

	a.Swap(labelStub{label: 1}, 10)
	assert.Equal(t, 1.0, a.Score(context.Background(), make(core.FeatureVector, 10)))

	a.Swap(labelStub{label: 7}, 10)
	assert.Equal(t, 1.0, a.Score(context.Background(), make(core.FeatureVector, 10)))

	a.Swap(labelStub{label: -3}, 10)
	assert.Equal(t, 0.0, a.Score(context.Background(), make(core.FeatureVector, 10)))
}

func TestScoreFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		model  Model
		reason string
	}{
		{"unsupported model", opaqueStub{}, "unsupported"},
		{"model error", &probaStub{err: errors.New("offline")}, "error"},
		{"short output", &probaStub{probs: []float64{0.3}}, "error"},
		{"panic", panicStub{}, "error"},
		{"nan", &probaStub{probs: []float64{0, math.NaN()}}, "nan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter()
			a.Swap(tt.model, 10)

			scoring := a.Evaluate(context.Background(), make(core.FeatureVector, 10))
			assert.Equal(t, 0.5, scoring.Probability)
			assert.Equal(t, tt.reason, scoring.Fallback)
		})
	}
}

func TestSwapNilUnloads(t *testing.T) {
	a := newTestAdapter()
	a.Swap(DefaultModel(), DefaultDimension)

	model, dim := a.Current()
	assert.NotNil(t, model)
	assert.Equal(t, DefaultDimension, dim)

	a.Swap(nil, 0)
	model, _ = a.Current()
	assert.Nil(t, model)
	assert.Equal(t, 0.5, a.Score(context.Background(), make(core.FeatureVector, 10)))
}

func TestConcurrentScoreAndSwap(t *testing.T) {
	a := newTestAdapter()
	a.Swap(DefaultModel(), DefaultDimension)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p := a.Score(context.Background(), core.FeatureVector{1, 0, 1})
				assert.GreaterOrEqual(t, p, 0.0)
				assert.LessOrEqual(t, p, 1.0)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				a.Swap(&RuleModel{Threshold: 2}, 5)
				a.Swap(DefaultModel(), DefaultDimension)
			}
		}()
	}
	wg.Wait()
}

func TestReconcile(t *testing.T) {
	assert.Equal(t, []float64{1, 2}, Reconcile([]float64{1, 2, 3}, 2))
	assert.Equal(t, []float64{1, 0, 0}, Reconcile([]float64{1}, 3))
	assert.Equal(t, []float64{4, 5}, Reconcile([]float64{4, 5}, 0))
}

func TestDefaultModelOrdering(t *testing.T) {
	m := DefaultModel()
	ctx := context.Background()

	empty, _ := m.PredictProba(ctx, make([]float64, 10))
	full, _ := m.PredictProba(ctx, []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1})

	assert.Less(t, empty[1], 0.1)
	assert.Greater(t, full[1], 0.99)
	assert.InDelta(t, 1.0, empty[0]+empty[1], 1e-9)
}

func TestRuleModel(t *testing.T) {
	m := &RuleModel{Threshold: 3}

	label, err := m.Predict(context.Background(), []float64{1, 1, 0, 1})
	assert.NoError(t, err)
	assert.Equal(t, 1.0, label)

	label, _ = m.Predict(context.Background(), []float64{1, 1, 0, 0})
	assert.Equal(t, 0.0, label)
}
