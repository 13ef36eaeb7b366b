package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/adapters/bedrock"
	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/features"
)

// BedrockFactory creates Bedrock-backed models
type BedrockFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewBedrockFactory creates a new Bedrock factory
func NewBedrockFactory(cfg *config.Config, logger *zap.Logger) *BedrockFactory {
	return &BedrockFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateModel creates a Bedrock model using the default AWS credential chain
func (f *BedrockFactory) CreateModel(ctx context.Context) (*bedrock.BedrockModel, error) {
	bedrockCfg := f.cfg.GetBedrock()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(bedrockCfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return bedrock.NewBedrockModel(
		bedrockruntime.NewFromConfig(awsCfg),
		bedrockCfg.ModelID,
		bedrockCfg.MaxTokens,
		bedrockCfg.Temperature,
		bedrockCfg.TopP,
		features.Names[:],
		f.logger,
	), nil
}
