package ports

import (
	"context"

	"github.com/mikey/phish-detector/internal/core"
)

// Frontend exposes the detection service to users
type Frontend interface {
	// Analyze runs one analysis and presents the result
	Analyze(ctx context.Context, raw []byte, source string) (*core.AnalysisResult, error)

	// Start starts the frontend
	Start() error

	// Stop stops the frontend
	Stop() error
}
