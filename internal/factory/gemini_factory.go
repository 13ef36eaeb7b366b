package factory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/adapters/gemini"
	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/features"
)

// GeminiFactory creates Gemini-backed models
type GeminiFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewGeminiFactory creates a new Gemini factory
func NewGeminiFactory(cfg *config.Config, logger *zap.Logger) *GeminiFactory {
	return &GeminiFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateModel creates a Gemini model. The caller owns the returned model and must Close it.
func (f *GeminiFactory) CreateModel(ctx context.Context) (*gemini.GeminiModel, error) {
	geminiCfg := f.cfg.GetGemini()

	if geminiCfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	return gemini.NewGeminiModel(
		ctx,
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		features.Names[:],
		f.logger,
	)
}
