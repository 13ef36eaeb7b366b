package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.prompt = string(parts[0].(genai.Text))
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(f.reply)}}},
		},
	}, nil
}

func TestPredictProba(t *testing.T) {
	gen := &fakeGenerator{reply: `{"phishing_probability": 0.85, "explanation": "urgent credential request"}`}
	model := NewGeminiModelWithGenerator(gen, "gemini-1.5-flash", []string{"urgency"}, zap.NewNop())

	probs, err := model.PredictProba(context.Background(), []float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 0.85, probs[1], 1e-9)
	assert.InDelta(t, 0.15, probs[0], 1e-9)
	assert.Contains(t, gen.prompt, "- urgency: 1")
	assert.Equal(t, "gemini:gemini-1.5-flash", model.Name())
	assert.NoError(t, model.Close())
}

func TestEmptyCandidates(t *testing.T) {
	model := NewGeminiModelWithGenerator(emptyGenerator{}, "gemini-1.5-flash", nil, zap.NewNop())

	_, err := model.PredictProba(context.Background(), []float64{0})
	assert.Error(t, err)
}

func TestGeneratorError(t *testing.T) {
	model := NewGeminiModelWithGenerator(&fakeGenerator{err: errors.New("quota")}, "gemini-1.5-flash", nil, zap.NewNop())

	_, err := model.PredictProba(context.Background(), []float64{0})
	assert.Error(t, err)
}

type emptyGenerator struct{}

func (emptyGenerator) GenerateContent(context.Context, ...genai.Part) (*genai.GenerateContentResponse, error) {
	return &genai.GenerateContentResponse{}, nil
}
