package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/classifier"
)

// ChatCompleter is the subset of the OpenAI client used here
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIModel scores feature vectors with an OpenAI chat model
type OpenAIModel struct {
	client       ChatCompleter
	modelName    string
	maxTokens    int
	temperature  float32
	topP         float32
	featureNames []string
	logger       *zap.Logger
	promptFormat string
}

// NewOpenAIModel creates a new OpenAI-backed model
func NewOpenAIModel(
	client ChatCompleter,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	featureNames []string,
	logger *zap.Logger,
) *OpenAIModel {
	return &OpenAIModel{
		client:       client,
		modelName:    modelName,
		maxTokens:    maxTokens,
		temperature:  temperature,
		topP:         topP,
		featureNames: featureNames,
		logger:       logger,
		promptFormat: classifier.LLMPrompt,
	}
}

// Name implements classifier.Model
func (m *OpenAIModel) Name() string {
	return "openai:" + m.modelName
}

// PredictProba implements classifier.ProbabilityModel
func (m *OpenAIModel) PredictProba(ctx context.Context, features []float64) ([]float64, error) {
	prompt := fmt.Sprintf(m.promptFormat, classifier.FeatureListing(m.featureNames, features))

	req := openai.ChatCompletionRequest{
		Model: m.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a phishing detection system. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   m.maxTokens,
		Temperature: m.temperature,
		TopP:        m.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	verdict, err := classifier.ParseLLMVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("OpenAI verdict",
		zap.String("model", m.modelName),
		zap.String("completion_id", resp.ID),
		zap.Float64("probability", verdict.PhishingProbability),
		zap.String("explanation", verdict.Explanation))

	return verdict.Probabilities(), nil
}
