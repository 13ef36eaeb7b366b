package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mikey/phish-detector/internal/metrics"
)

// Milestone is a progress point reported during an analysis
type Milestone struct {
	Percent int
	Label   string
}

var (
	MilestoneParsing     = Milestone{14, "Extracting email components..."}
	MilestoneSender      = Milestone{28, "Analyzing sender information..."}
	MilestoneURLs        = Milestone{42, "Checking for suspicious URLs..."}
	MilestonePatterns    = Milestone{56, "Scanning for phishing patterns..."}
	MilestoneScoring     = Milestone{70, "Running machine learning model..."}
	MilestoneProbability = Milestone{84, "Calculating phishing probability..."}
	MilestoneReport      = Milestone{100, "Generating report..."}
)

// ProgressFunc observes analysis milestones. It must not block.
type ProgressFunc func(Milestone)

// DetectionService is the core service for phishing detection
type DetectionService struct {
	parser   EmailParser
	sender   SenderAnalyzer
	urls     URLAnalyzer
	patterns PatternScanner
	features FeatureExtractor
	scorer   Scorer
	recorder *Recorder
	logger   *zap.Logger
}

// NewDetectionService creates a new detection service. recorder may be nil.
func NewDetectionService(
	parser EmailParser,
	sender SenderAnalyzer,
	urls URLAnalyzer,
	patterns PatternScanner,
	features FeatureExtractor,
	scorer Scorer,
	recorder *Recorder,
	logger *zap.Logger,
) *DetectionService {
	return &DetectionService{
		parser:   parser,
		sender:   sender,
		urls:     urls,
		patterns: patterns,
		features: features,
		scorer:   scorer,
		recorder: recorder,
		logger:   logger,
	}
}

// Analyze runs the full pipeline over a raw email
func (s *DetectionService) Analyze(ctx context.Context, raw []byte, source string) (*AnalysisResult, error) {
	return s.AnalyzeWithProgress(ctx, raw, source, nil)
}

// AnalyzeWithProgress runs the pipeline and reports milestones to progress.
// The only errors are ErrEmptyInput and a cancelled context.
func (s *DetectionService) AnalyzeWithProgress(ctx context.Context, raw []byte, source string, progress ProgressFunc) (*AnalysisResult, error) {
	startTime := time.Now()
	report := func(m Milestone) {
		if progress != nil {
			progress(m)
		}
	}

	report(MilestoneParsing)
	email, err := s.parser.Parse(raw)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	signals := s.extractSignals(email)
	report(MilestoneSender)
	report(MilestoneURLs)
	report(MilestonePatterns)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report(MilestoneScoring)
	vector := s.features.Build(email)
	scoring := s.scorer.Evaluate(ctx, vector)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report(MilestoneProbability)
	result := &AnalysisResult{
		ID:          uuid.NewString(),
		Probability: scoring.Probability,
		IsPhishing:  IsPhishing(scoring.Probability),
		Indicators:  GenerateIndicators(signals),
		URLs:        signals.URLSignals.URLs,
		Signals:     signals,
		Email:       email,
		Source:      source,
		Timestamp:   time.Now(),
		ModelUsed:   scoring.Model,
	}
	result.ProcessingTime = time.Since(startTime)
	report(MilestoneReport)

	metrics.RecordAnalysis(result.IsPhishing, result.ProcessingTime)
	s.logger.Info("Analyzed email",
		zap.String("id", result.ID),
		zap.String("source", source),
		zap.String("sender", email.From),
		zap.Float64("probability", result.Probability),
		zap.Bool("is_phishing", result.IsPhishing),
		zap.Int("indicators", len(result.Indicators)),
		zap.String("model", result.ModelUsed),
		zap.Duration("processing_time", result.ProcessingTime))

	if s.recorder != nil {
		s.recorder.Record(result)
	}

	return result, nil
}

// extractSignals runs the analyzers concurrently over the same email
func (s *DetectionService) extractSignals(email *Email) Signals {
	var (
		sender   SenderSignals
		urls     URLSignals
		patterns ContentSignals
		g        errgroup.Group
	)

	g.Go(func() error {
		sender = guard(s, "sender", func() SenderSignals { return s.sender.AnalyzeSender(email) })
		return nil
	})
	g.Go(func() error {
		urls = guard(s, "urls", func() URLSignals { return s.urls.AnalyzeURLs(email) })
		return nil
	})
	g.Go(func() error {
		patterns = guard(s, "patterns", func() ContentSignals { return s.patterns.ScanPatterns(email) })
		return nil
	})
	_ = g.Wait()

	return MergeSignals(sender, urls, patterns)
}

// guard runs a detector and substitutes its zero value if it panics
func guard[T any](s *DetectionService, detector string, fn func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			err := &SignalExtractionError{Detector: detector, Cause: r}
			s.logger.Warn("Detector failed, using default signals",
				zap.String("detector", detector),
				zap.Error(err))
			metrics.RecordSignalFault(detector)
			var zero T
			out = zero
		}
	}()
	return fn()
}

// Task is a pending analysis started with Submit
type Task struct {
	done   chan struct{}
	result *AnalysisResult
	err    error
}

// Submit starts an analysis in the background. Cancelling ctx abandons it.
func (s *DetectionService) Submit(ctx context.Context, raw []byte, source string, progress ProgressFunc) *Task {
	raw = append([]byte(nil), raw...)
	task := &Task{done: make(chan struct{})}
	go func() {
		defer close(task.done)
		task.result, task.err = s.AnalyzeWithProgress(ctx, raw, source, progress)
	}()
	return task
}

// Done is closed when the analysis has finished
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the analysis finishes or ctx is done
func (t *Task) Wait(ctx context.Context) (*AnalysisResult, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
