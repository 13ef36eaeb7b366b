package factory

import (
	"io"

	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/adapters/frontend"
	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/report"
)

// FrontendFactory creates frontends based on configuration
type FrontendFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	service  *core.DetectionService
	registry *core.Registry
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(
	cfg *config.Config,
	logger *zap.Logger,
	service *core.DetectionService,
	registry *core.Registry,
) *FrontendFactory {
	return &FrontendFactory{
		cfg:      cfg,
		logger:   logger,
		service:  service,
		registry: registry,
	}
}

// CreateHTTPFrontend creates the HTTP frontend listening on server.listen_address
func (f *FrontendFactory) CreateHTTPFrontend() *frontend.HTTPFrontend {
	serverCfg := f.cfg.GetServer()
	return frontend.NewHTTPFrontend(
		f.service,
		f.registry,
		f.logger,
		serverCfg.ListenAddress,
		serverCfg.MaxBodyBytes,
	)
}

// CreateCLIFrontend creates the CLI frontend printing reports in report.format
func (f *FrontendFactory) CreateCLIFrontend(out io.Writer, verbose bool) (*frontend.CLIFrontend, error) {
	format, err := report.ParseFormat(f.cfg.GetString("report.format"))
	if err != nil {
		return nil, err
	}
	return frontend.NewCLIFrontend(f.service, f.registry, f.logger, out, format, verbose), nil
}
