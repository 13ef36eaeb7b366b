package factory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/classifier"
	"github.com/mikey/phish-detector/internal/config"
)

// ModelFactory creates the classifier adapter and its initial model
type ModelFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewModelFactory creates a new model factory
func NewModelFactory(cfg *config.Config, logger *zap.Logger) *ModelFactory {
	return &ModelFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateModel creates the model selected by classifier.kind along with the
// vector length it expects. Kind "none" returns a nil model.
func (f *ModelFactory) CreateModel(ctx context.Context) (classifier.Model, int, error) {
	classifierCfg, err := f.cfg.GetClassifier()
	if err != nil {
		return nil, 0, err
	}

	dimension := classifierCfg.Dimension
	if dimension <= 0 {
		dimension = classifier.DefaultDimension
	}

	switch classifierCfg.Kind {
	case "none":
		return nil, 0, nil
	case "builtin", "":
		return classifier.DefaultModel(), classifier.DefaultDimension, nil
	case "file":
		if classifierCfg.ModelPath == "" {
			return nil, 0, fmt.Errorf("classifier.model_path is required for kind %q", classifierCfg.Kind)
		}
		loaded, err := classifier.LoadModelFile(classifierCfg.ModelPath)
		if err != nil {
			return nil, 0, err
		}
		return loaded.Model, loaded.Dimension, nil
	case "bedrock":
		model, err := NewBedrockFactory(f.cfg, f.logger).CreateModel(ctx)
		if err != nil {
			return nil, 0, err
		}
		return model, dimension, nil
	case "gemini":
		model, err := NewGeminiFactory(f.cfg, f.logger).CreateModel(ctx)
		if err != nil {
			return nil, 0, err
		}
		return model, dimension, nil
	case "openai":
		model, err := NewOpenAIFactory(f.cfg, f.logger).CreateModel()
		if err != nil {
			return nil, 0, err
		}
		return model, dimension, nil
	default:
		return nil, 0, fmt.Errorf("unsupported classifier kind: %s", classifierCfg.Kind)
	}
}

// CreateAdapter creates an adapter with the configured model swapped in
func (f *ModelFactory) CreateAdapter(ctx context.Context) (*classifier.Adapter, error) {
	classifierCfg, err := f.cfg.GetClassifier()
	if err != nil {
		return nil, err
	}

	adapter := classifier.NewAdapter(f.logger, classifierCfg.Timeout)

	model, dimension, err := f.CreateModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s model: %w", classifierCfg.Kind, err)
	}
	if model != nil {
		adapter.Swap(model, dimension)
	} else {
		f.logger.Warn("No classifier model configured, every email scores 0.5")
	}

	return adapter, nil
}

// CreateWatcher creates a watcher reloading the model file into adapter. It
// returns nil when the model does not come from a watched file.
func (f *ModelFactory) CreateWatcher(adapter *classifier.Adapter) (*classifier.Watcher, error) {
	classifierCfg, err := f.cfg.GetClassifier()
	if err != nil {
		return nil, err
	}
	if classifierCfg.Kind != "file" || !classifierCfg.Watch {
		return nil, nil
	}
	return classifier.NewWatcher(classifierCfg.ModelPath, adapter, f.logger)
}
