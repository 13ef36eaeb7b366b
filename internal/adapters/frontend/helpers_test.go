package frontend

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/adapters/store"
	"github.com/mikey/phish-detector/internal/analyzers"
	"github.com/mikey/phish-detector/internal/classifier"
	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/features"
	"github.com/mikey/phish-detector/internal/parser"
	"github.com/mikey/phish-detector/internal/utils"
)

const phishingEmail = "From: PayPal Security <security@paypal-support.xyz>\n" +
	"Subject: Account notice\n" +
	"\n" +
	"Verify your account immediately http://bit.ly/abc\n"

const benignEmail = "From: Alice <alice@example.org>\n" +
	"Subject: Lunch\n" +
	"\n" +
	"Hi all, lunch is at noon tomorrow in the usual place.\n"

type testStack struct {
	service  *core.DetectionService
	registry *core.Registry
	store    *store.MemoryStore
	recorder *core.Recorder
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	logger := zap.NewNop()

	adapter := classifier.NewAdapter(logger, 0)
	adapter.Swap(classifier.DefaultModel(), classifier.DefaultDimension)

	memStore := store.NewMemoryStore(logger)
	recorder := core.NewRecorder(memStore, memStore, nil, nil, logger, time.Second, 16)
	t.Cleanup(recorder.Close)

	service := core.NewDetectionService(
		parser.New(logger, utils.NewTextProcessor(logger)),
		analyzers.NewSenderAnalyzer(logger),
		analyzers.NewURLExtractor(logger),
		analyzers.NewPatternScanner(logger),
		features.NewBuilder(logger),
		adapter,
		recorder,
		logger,
	)

	return &testStack{
		service:  service,
		registry: core.NewRegistry(memStore, memStore),
		store:    memStore,
		recorder: recorder,
	}
}
