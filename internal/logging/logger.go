package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mikey/phish-detector/internal/config"
)

// InitLogger initializes the daemon logger from the logging.* settings
func InitLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.GetString("logging.level")))
	if err != nil {
		level = zapcore.InfoLevel
	}

	output := cfg.GetString("logging.output")
	if output == "" {
		output = "stderr"
	}

	return build(level, cfg.GetString("logging.format") == "json", output)
}

// InitConsoleLogger initializes the CLI logger. It always writes to stderr
// so reports on stdout stay clean.
func InitConsoleLogger(verbose bool, jsonFormat bool) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	return build(level, jsonFormat, "stderr")
}

func build(level zapcore.Level, jsonFormat bool, output string) (*zap.Logger, error) {
	var logConfig zap.Config
	if jsonFormat {
		logConfig = zap.NewProductionConfig()
	} else {
		logConfig = zap.NewDevelopmentConfig()
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	logConfig.Level = zap.NewAtomicLevelAt(level)
	logConfig.OutputPaths = []string{output}
	logConfig.ErrorOutputPaths = []string{"stderr"}

	logger, err := logConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
