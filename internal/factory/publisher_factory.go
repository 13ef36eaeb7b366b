package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/adapters/events"
	"github.com/mikey/phish-detector/internal/config"
)

// PublisherFactory creates the analysis event publisher
type PublisherFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewPublisherFactory creates a new publisher factory
func NewPublisherFactory(cfg *config.Config, logger *zap.Logger) *PublisherFactory {
	return &PublisherFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreatePublisher connects to the broker. It returns nil when events are disabled.
func (f *PublisherFactory) CreatePublisher() (*events.Publisher, error) {
	eventsCfg := f.cfg.GetEvents()
	if !eventsCfg.Enabled {
		return nil, nil
	}
	return events.NewPublisher(eventsCfg.AMQPURL, eventsCfg.Exchange, eventsCfg.RoutingKey, f.logger)
}
