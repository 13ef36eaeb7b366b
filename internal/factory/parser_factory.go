package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/parser"
	"github.com/mikey/phish-detector/internal/utils"
)

// ParserFactory creates email parsers
type ParserFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewParserFactory creates a new ParserFactory
func NewParserFactory(cfg *config.Config, logger *zap.Logger) *ParserFactory {
	return &ParserFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateParser creates a parser that truncates bodies past parser.max_body_size
func (f *ParserFactory) CreateParser() *parser.Parser {
	maxBody := f.cfg.GetInt("parser.max_body_size")
	if maxBody > 0 {
		f.logger.Debug("Email bodies will be truncated", zap.Int("max_body_size", maxBody))
	}
	return parser.NewWithLimit(f.logger, utils.NewTextProcessor(f.logger), maxBody)
}
