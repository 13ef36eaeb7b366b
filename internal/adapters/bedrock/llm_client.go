package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/classifier"
)

// InvokeModelAPI is the subset of the Bedrock runtime client used here
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockModel scores feature vectors with a model hosted on Amazon Bedrock
type BedrockModel struct {
	client       InvokeModelAPI
	modelID      string
	maxTokens    int
	temperature  float32
	topP         float32
	featureNames []string
	logger       *zap.Logger
	promptFormat string
}

// NewBedrockModel creates a new Bedrock-backed model
func NewBedrockModel(
	client InvokeModelAPI,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	featureNames []string,
	logger *zap.Logger,
) *BedrockModel {
	return &BedrockModel{
		client:       client,
		modelID:      modelID,
		maxTokens:    maxTokens,
		temperature:  temperature,
		topP:         topP,
		featureNames: featureNames,
		logger:       logger,
		promptFormat: classifier.LLMPrompt,
	}
}

// Name implements classifier.Model
func (m *BedrockModel) Name() string {
	return "bedrock:" + m.modelID
}

// PredictProba implements classifier.ProbabilityModel
func (m *BedrockModel) PredictProba(ctx context.Context, features []float64) ([]float64, error) {
	prompt := fmt.Sprintf(m.promptFormat, classifier.FeatureListing(m.featureNames, features))

	payload, err := m.requestPayload(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := m.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(m.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	responseText, err := m.responseText(resp.Body)
	if err != nil {
		return nil, err
	}

	verdict, err := classifier.ParseLLMVerdict(responseText)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("Bedrock verdict",
		zap.String("model", m.modelID),
		zap.Float64("probability", verdict.PhishingProbability),
		zap.String("explanation", verdict.Explanation))

	return verdict.Probabilities(), nil
}

func (m *BedrockModel) requestPayload(prompt string) ([]byte, error) {
	switch {
	case m.isAnthropicModel():
		return json.Marshal(map[string]interface{}{
			"anthropic_version": "bedrock-2023-05-31",
			"max_tokens":        m.maxTokens,
			"temperature":       m.temperature,
			"top_p":             m.topP,
			"messages": []map[string]interface{}{
				{"role": "user", "content": prompt},
			},
		})
	case m.isAmazonTitanModel():
		return json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": m.maxTokens,
				"temperature":   m.temperature,
				"topP":          m.topP,
			},
		})
	default:
		return json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  m.maxTokens,
			"temperature": m.temperature,
			"top_p":       m.topP,
		})
	}
}

func (m *BedrockModel) responseText(body []byte) (string, error) {
	switch {
	case m.isAnthropicModel():
		var claudeResp struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		for _, block := range claudeResp.Content {
			if block.Type == "text" {
				return block.Text, nil
			}
		}
		return "", fmt.Errorf("empty response from Claude model")

	case m.isAmazonTitanModel():
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil

	default:
		var genericResp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(body, &genericResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
		}
		switch {
		case genericResp.Output != "":
			return genericResp.Output, nil
		case genericResp.Text != "":
			return genericResp.Text, nil
		case genericResp.Response != "":
			return genericResp.Response, nil
		}
		// The body itself may be the verdict
		return string(body), nil
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (m *BedrockModel) isAnthropicModel() bool {
	return strings.HasPrefix(m.modelID, "anthropic.claude") || strings.Contains(m.modelID, ".anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (m *BedrockModel) isAmazonTitanModel() bool {
	return strings.HasPrefix(m.modelID, "amazon.titan")
}
