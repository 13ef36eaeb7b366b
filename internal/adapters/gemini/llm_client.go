package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mikey/phish-detector/internal/classifier"
)

// ContentGenerator is the subset of genai.GenerativeModel used here
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiModel scores feature vectors with Google Gemini
type GeminiModel struct {
	client       *genai.Client
	generator    ContentGenerator
	modelName    string
	featureNames []string
	logger       *zap.Logger
	promptFormat string
}

// NewGeminiModel creates a Gemini client and model
func NewGeminiModel(
	ctx context.Context,
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	featureNames []string,
	logger *zap.Logger,
) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"

	m := NewGeminiModelWithGenerator(model, modelName, featureNames, logger)
	m.client = client
	return m, nil
}

// NewGeminiModelWithGenerator wraps an existing generator
func NewGeminiModelWithGenerator(generator ContentGenerator, modelName string, featureNames []string, logger *zap.Logger) *GeminiModel {
	return &GeminiModel{
		generator:    generator,
		modelName:    modelName,
		featureNames: featureNames,
		logger:       logger,
		promptFormat: classifier.LLMPrompt,
	}
}

// Close closes the Gemini client
func (m *GeminiModel) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// Name implements classifier.Model
func (m *GeminiModel) Name() string {
	return "gemini:" + m.modelName
}

// PredictProba implements classifier.ProbabilityModel
func (m *GeminiModel) PredictProba(ctx context.Context, features []float64) ([]float64, error) {
	prompt := fmt.Sprintf(m.promptFormat, classifier.FeatureListing(m.featureNames, features))

	resp, err := m.generator.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	verdict, err := classifier.ParseLLMVerdict(sb.String())
	if err != nil {
		return nil, err
	}

	m.logger.Debug("Gemini verdict",
		zap.String("model", m.modelName),
		zap.Float64("probability", verdict.PhishingProbability),
		zap.String("explanation", verdict.Explanation))

	return verdict.Probabilities(), nil
}
