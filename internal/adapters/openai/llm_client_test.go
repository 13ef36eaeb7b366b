package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCompleter struct {
	reply   string
	err     error
	request openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.request = request
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	if f.reply == "" {
		return openai.ChatCompletionResponse{ID: "empty"}, nil
	}
	return openai.ChatCompletionResponse{
		ID: "chatcmpl-1",
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.reply}},
		},
	}, nil
}

func TestPredictProba(t *testing.T) {
	client := &fakeCompleter{reply: `{"phishing_probability": 0.4}`}
	model := NewOpenAIModel(client, "gpt-4o-mini", 128, 0, 1, []string{"has_url", "urgency"}, zap.NewNop())

	probs, err := model.PredictProba(context.Background(), []float64{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, probs[1], 1e-9)

	assert.Equal(t, "gpt-4o-mini", client.request.Model)
	require.NotNil(t, client.request.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, client.request.ResponseFormat.Type)
	assert.Contains(t, client.request.Messages[1].Content, "- has_url: 1")
}

func TestNoChoices(t *testing.T) {
	model := NewOpenAIModel(&fakeCompleter{}, "gpt-4o-mini", 128, 0, 1, nil, zap.NewNop())

	_, err := model.PredictProba(context.Background(), []float64{1})
	assert.Error(t, err)
}

func TestCompletionError(t *testing.T) {
	model := NewOpenAIModel(&fakeCompleter{err: errors.New("rate limited")}, "gpt-4o-mini", 128, 0, 1, nil, zap.NewNop())

	_, err := model.PredictProba(context.Background(), []float64{1})
	assert.Error(t, err)
}
