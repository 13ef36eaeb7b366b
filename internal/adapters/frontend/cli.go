package frontend

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/report"
)

// CLIFrontend runs analyses and URL maintenance from the command line
type CLIFrontend struct {
	service  *core.DetectionService
	registry *core.Registry
	logger   *zap.Logger
	out      io.Writer
	format   report.Format
	verbose  bool
}

// NewCLIFrontend creates a new CLI frontend writing to out
func NewCLIFrontend(
	service *core.DetectionService,
	registry *core.Registry,
	logger *zap.Logger,
	out io.Writer,
	format report.Format,
	verbose bool,
) *CLIFrontend {
	return &CLIFrontend{
		service:  service,
		registry: registry,
		logger:   logger,
		out:      out,
		format:   format,
		verbose:  verbose,
	}
}

// Analyze analyzes an email and prints the report
func (f *CLIFrontend) Analyze(ctx context.Context, raw []byte, source string) (*core.AnalysisResult, error) {
	f.logger.Debug("Processing email", zap.String("source", source), zap.Int("size", len(raw)))

	var progress core.ProgressFunc
	if f.verbose && f.format == report.FormatText {
		progress = func(m core.Milestone) {
			fmt.Fprintf(f.out, "[%3d%%] %s\n", m.Percent, m.Label)
		}
	}

	result, err := f.service.Submit(ctx, raw, source, progress).Wait(ctx)
	if err != nil {
		f.logger.Error("Failed to analyze email", zap.Error(err))
		return nil, err
	}
	if progress != nil {
		fmt.Fprintln(f.out)
	}

	if err := report.Render(f.out, result, f.format); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	if f.verbose && f.format == report.FormatText {
		fmt.Fprintf(f.out, "\nModel: %s\nProcessing time: %v\n", result.ModelUsed, result.ProcessingTime)
	}

	return result, nil
}

// History prints the most recent analyses
func (f *CLIFrontend) History(ctx context.Context, limit int) error {
	entries, err := f.registry.RecentHistory(ctx, limit)
	if err != nil {
		return err
	}
	return report.RenderHistory(f.out, entries)
}

// ListURLs prints the stored URLs as a table
func (f *CLIFrontend) ListURLs(ctx context.Context) error {
	records, err := f.registry.ListURLs(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(f.out, "No suspicious URLs stored.")
		return nil
	}

	tw := tabwriter.NewWriter(f.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "URL\tRISK\tADDED\tSOURCE")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.URL, r.RiskLevel, r.DateAdded, r.Source)
	}
	return tw.Flush()
}

// AddURL stores a URL entered by the user
func (f *CLIFrontend) AddURL(ctx context.Context, url, source, risk string) error {
	record, err := f.registry.AddURL(ctx, url, source, risk)
	if err != nil {
		return err
	}
	fmt.Fprintf(f.out, "Added %s (%s)\n", record.URL, record.RiskLevel)
	return nil
}

// RemoveURL deletes a stored URL
func (f *CLIFrontend) RemoveURL(ctx context.Context, url string) error {
	if err := f.registry.RemoveURL(ctx, url); err != nil {
		return err
	}
	fmt.Fprintf(f.out, "Removed %s\n", url)
	return nil
}

// ExportURLs writes the stored URLs to w
func (f *CLIFrontend) ExportURLs(ctx context.Context, w io.Writer, format report.Format) error {
	records, err := f.registry.ListURLs(ctx)
	if err != nil {
		return err
	}
	return report.ExportURLs(w, records, format)
}

// Start is a no-op for the CLI frontend
func (f *CLIFrontend) Start() error {
	return nil
}

// Stop is a no-op for the CLI frontend
func (f *CLIFrontend) Stop() error {
	return nil
}
