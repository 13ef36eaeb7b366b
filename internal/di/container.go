package di

import (
	"context"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/adapters/events"
	"github.com/mikey/phish-detector/internal/analyzers"
	"github.com/mikey/phish-detector/internal/classifier"
	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/factory"
	"github.com/mikey/phish-detector/internal/features"
	"github.com/mikey/phish-detector/internal/logging"
	"github.com/mikey/phish-detector/internal/parser"
	"github.com/mikey/phish-detector/internal/ports"
	"github.com/mikey/phish-detector/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideDetection(container); err != nil {
		return nil, err
	}

	// Register frontend
	if err := container.Provide(func(f *factory.FrontendFactory) ports.Frontend {
		return f.CreateHTTPFrontend()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideDetection registers everything between the configuration and the
// frontends. It expects *config.Config and *zap.Logger to be provided.
func provideDetection(container *dig.Container) error {
	// Register factories
	for _, constructor := range []any{
		factory.NewParserFactory,
		factory.NewModelFactory,
		factory.NewStoreFactory,
		factory.NewPublisherFactory,
		factory.NewFrontendFactory,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Register email parser
	if err := container.Provide(func(f *factory.ParserFactory) *parser.Parser {
		return f.CreateParser()
	}); err != nil {
		return err
	}

	// Register classifier adapter and optional model watcher
	if err := container.Provide(func(f *factory.ModelFactory) (*classifier.Adapter, error) {
		return f.CreateAdapter(context.Background())
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ModelFactory, adapter *classifier.Adapter) (*classifier.Watcher, error) {
		return f.CreateWatcher(adapter)
	}); err != nil {
		return err
	}

	// Register store
	if err := container.Provide(func(f *factory.StoreFactory) (core.Store, error) {
		return f.CreateStore()
	}); err != nil {
		return err
	}

	// Register event publisher, nil when disabled
	if err := container.Provide(func(f *factory.PublisherFactory) (*events.Publisher, error) {
		return f.CreatePublisher()
	}); err != nil {
		return err
	}

	// Register URL allowlist
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *whitelist.Checker {
		hosts := cfg.GetStringSlice("allowlist.url_hosts")
		if len(hosts) > 0 {
			logger.Info("Loaded URL allowlist", zap.Strings("hosts", hosts))
		}
		return whitelist.NewChecker(hosts, logger)
	}); err != nil {
		return err
	}

	// Register recorder
	if err := container.Provide(func(
		cfg *config.Config,
		logger *zap.Logger,
		st core.Store,
		publisher *events.Publisher,
		hosts *whitelist.Checker,
	) (*core.Recorder, error) {
		storeCfg, err := cfg.GetStore()
		if err != nil {
			return nil, err
		}
		// A nil *events.Publisher must not become a non-nil interface
		var pub core.EventPublisher
		if publisher != nil {
			pub = publisher
		}
		return core.NewRecorder(st, st, pub, hosts, logger, storeCfg.Timeout, storeCfg.QueueSize), nil
	}); err != nil {
		return err
	}

	// Register registry
	if err := container.Provide(func(st core.Store) *core.Registry {
		return core.NewRegistry(st, st)
	}); err != nil {
		return err
	}

	// Register detection service
	if err := container.Provide(func(
		logger *zap.Logger,
		emailParser *parser.Parser,
		adapter *classifier.Adapter,
		recorder *core.Recorder,
	) *core.DetectionService {
		return core.NewDetectionService(
			emailParser,
			analyzers.NewSenderAnalyzer(logger),
			analyzers.NewURLExtractor(logger),
			analyzers.NewPatternScanner(logger),
			features.NewBuilder(logger),
			adapter,
			recorder,
			logger,
		)
	}); err != nil {
		return err
	}

	return nil
}

// Resources are the long-lived components a process has to shut down
type Resources struct {
	dig.In

	Logger    *zap.Logger
	Adapter   *classifier.Adapter
	Watcher   *classifier.Watcher
	Recorder  *core.Recorder
	Store     core.Store
	Publisher *events.Publisher
}

// Close stops the watcher, drains the recorder and closes the store,
// publisher and model, waiting at most timeout for the recorder
func (r Resources) Close(timeout time.Duration) {
	if r.Watcher != nil {
		if err := r.Watcher.Stop(); err != nil {
			r.Logger.Error("Failed to stop model watcher", zap.Error(err))
		}
	}

	drained := make(chan struct{})
	go func() {
		r.Recorder.Close()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(timeout):
		r.Logger.Warn("Timed out waiting for pending records")
	}

	if err := r.Store.Close(); err != nil {
		r.Logger.Error("Failed to close store", zap.Error(err))
	}

	if r.Publisher != nil {
		if err := r.Publisher.Close(); err != nil {
			r.Logger.Error("Failed to close event publisher", zap.Error(err))
		}
	}

	if model, _ := r.Adapter.Current(); model != nil {
		if closer, ok := model.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				r.Logger.Error("Failed to close model client", zap.Error(err))
			}
		}
	}
}
