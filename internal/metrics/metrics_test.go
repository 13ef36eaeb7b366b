package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAnalysis(t *testing.T) {
	phishing := testutil.ToFloat64(AnalysesTotal.WithLabelValues("phishing"))
	legitimate := testutil.ToFloat64(AnalysesTotal.WithLabelValues("legitimate"))

	RecordAnalysis(true, 3*time.Millisecond)
	RecordAnalysis(false, time.Millisecond)
	RecordAnalysis(true, time.Millisecond)

	assert.Equal(t, phishing+2, testutil.ToFloat64(AnalysesTotal.WithLabelValues("phishing")))
	assert.Equal(t, legitimate+1, testutil.ToFloat64(AnalysesTotal.WithLabelValues("legitimate")))
}

func TestRecordFaults(t *testing.T) {
	before := testutil.ToFloat64(ClassifierFallbackTotal.WithLabelValues("nan"))
	RecordClassifierFallback("nan")
	assert.Equal(t, before+1, testutil.ToFloat64(ClassifierFallbackTotal.WithLabelValues("nan")))

	before = testutil.ToFloat64(PersistenceErrorsTotal.WithLabelValues("publish"))
	RecordPersistenceError("publish")
	assert.Equal(t, before+1, testutil.ToFloat64(PersistenceErrorsTotal.WithLabelValues("publish")))
}
