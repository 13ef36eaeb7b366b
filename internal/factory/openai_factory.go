package factory

import (
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/adapters/openai"
	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/features"
)

// OpenAIFactory creates OpenAI-backed models
type OpenAIFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewOpenAIFactory creates a new OpenAI factory
func NewOpenAIFactory(cfg *config.Config, logger *zap.Logger) *OpenAIFactory {
	return &OpenAIFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateModel creates an OpenAI model
func (f *OpenAIFactory) CreateModel() (*openai.OpenAIModel, error) {
	openaiCfg := f.cfg.GetOpenAI()

	if openaiCfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	return openai.NewOpenAIModel(
		goopenai.NewClient(openaiCfg.APIKey),
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		features.Names[:],
		f.logger,
	), nil
}
