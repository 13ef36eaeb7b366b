package core

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/metrics"
)

// Recorder persists finished analyses off the analysis path. Failures are
// logged and never reach the caller of Analyze.
type Recorder struct {
	urls      URLStore
	history   HistoryStore
	publisher EventPublisher
	hosts     HostFilter
	logger    *zap.Logger
	timeout   time.Duration

	queue  chan *AnalysisResult
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewRecorder creates a recorder and starts its worker. Any collaborator may be nil.
func NewRecorder(
	urls URLStore,
	history HistoryStore,
	publisher EventPublisher,
	hosts HostFilter,
	logger *zap.Logger,
	timeout time.Duration,
	queueSize int,
) *Recorder {
	if queueSize <= 0 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	r := &Recorder{
		urls:      urls,
		history:   history,
		publisher: publisher,
		hosts:     hosts,
		logger:    logger,
		timeout:   timeout,
		queue:     make(chan *AnalysisResult, queueSize),
	}

	r.wg.Add(1)
	go r.run()

	return r
}

// Record queues a result for persistence without blocking
func (r *Recorder) Record(result *AnalysisResult) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}

	select {
	case r.queue <- result:
	default:
		r.logger.Warn("Recorder queue full, dropping result", zap.String("id", result.ID))
		metrics.RecordPersistenceError("enqueue")
	}
}

// Close drains the queue and stops the worker
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Recorder) run() {
	defer r.wg.Done()

	for result := range r.queue {
		r.persist(result)
	}
}

func (r *Recorder) persist(result *AnalysisResult) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if result.IsPhishing && r.urls != nil {
		records := PhishingURLRecords(result, r.hosts)
		if len(records) > 0 {
			added, err := r.urls.AddURLs(ctx, records)
			if err != nil {
				r.fail("add_urls", err)
			} else if added > 0 {
				r.logger.Info("Added suspicious URLs to store",
					zap.String("source", result.Source),
					zap.Int("added", added))
			}
		}
	}

	if r.history != nil {
		if err := r.history.AppendHistory(ctx, NewHistoryEntry(result)); err != nil {
			r.fail("append_history", err)
		}
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, result); err != nil {
			r.fail("publish", err)
		}
	}
}

func (r *Recorder) fail(op string, err error) {
	r.logger.Error("Failed to record analysis", zap.Error(&PersistenceError{Op: op, Err: err}))
	metrics.RecordPersistenceError(op)
}

// PhishingURLRecords builds the store records for the URLs of a result,
// leaving out trusted hosts
func PhishingURLRecords(result *AnalysisResult, hosts HostFilter) []URLRecord {
	records := make([]URLRecord, 0, len(result.URLs))
	for _, raw := range result.URLs {
		if hosts != nil && hosts.IsTrustedHost(hostOf(raw)) {
			continue
		}
		records = append(records, URLRecord{
			URL:       raw,
			Source:    result.Source,
			DateAdded: result.Timestamp.Format(TimestampLayout),
			RiskLevel: RiskHigh,
		})
	}
	return records
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// NormalizeURL prefixes a scheme onto manually entered URLs
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "http://" + raw
	}
	return raw
}
