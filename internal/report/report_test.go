package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mikey/phish-detector/internal/core"
)

func phishingResult() *core.AnalysisResult {
	return &core.AnalysisResult{
		ID:          "r1",
		Probability: 0.823,
		IsPhishing:  true,
		Indicators: []core.Indicator{
			{Severity: core.SeverityCritical, Name: "Shortened URLs", Description: "Hidden destination."},
		},
		URLs:      []string{"http://bit.ly/abc"},
		Source:    "Email Analysis: invoice.eml",
		Timestamp: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		ModelUsed: "logistic-builtin",
		Email: &core.Email{
			From:    "PayPal Security <security@paypa1.com>",
			Subject: "Verify now",
			Headers: map[string]string{"Subject": "Verify now", "From": "PayPal Security <security@paypa1.com>"},
		},
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, phishingResult(), FormatText))

	out := buf.String()
	assert.Contains(t, out, "VERDICT: PHISHING DETECTED")
	assert.Contains(t, out, "Phishing Probability: 82.3%")
	assert.Contains(t, out, "Generated on 2024-05-01 10:30:00")
	assert.Contains(t, out, "1. [CRITICAL] Shortened URLs")
	assert.Contains(t, out, "DETECTED URLS (1):\n1. http://bit.ly/abc")
	assert.Contains(t, out, "Source: Email Analysis: invoice.eml")
	assert.Less(t, strings.Index(out, "From: PayPal"), strings.Index(out, "Subject: Verify now"))
}

func TestRenderTextBenign(t *testing.T) {
	var buf bytes.Buffer
	result := &core.AnalysisResult{Probability: 0.1, Timestamp: time.Now()}
	require.NoError(t, Render(&buf, result, FormatText))

	out := buf.String()
	assert.Contains(t, out, "VERDICT: NO PHISHING DETECTED")
	assert.Contains(t, out, "Source: Manual input")
	assert.NotContains(t, out, "SUSPICIOUS INDICATORS")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, phishingResult(), FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["is_phishing"])
	assert.Equal(t, "r1", decoded["id"])
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, phishingResult(), FormatYAML))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["is_phishing"])
	assert.Equal(t, "logistic-builtin", decoded["model_used"])
}

func TestRenderRejectsCSV(t *testing.T) {
	assert.Error(t, Render(&bytes.Buffer{}, phishingResult(), FormatCSV))
}

func TestExportURLs(t *testing.T) {
	records := []core.URLRecord{
		{URL: "http://a.example/x,y", Source: "Manual", DateAdded: "2024-05-01 10:00:00", RiskLevel: core.RiskHigh},
	}

	var csvOut bytes.Buffer
	require.NoError(t, ExportURLs(&csvOut, records, FormatCSV))
	assert.Equal(t, "URL,Source,Date Added,Risk Level\n\"http://a.example/x,y\",Manual,2024-05-01 10:00:00,High\n", csvOut.String())

	var jsonOut bytes.Buffer
	require.NoError(t, ExportURLs(&jsonOut, records, FormatJSON))
	var decoded []core.URLRecord
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &decoded))
	assert.Equal(t, records, decoded)

	var empty bytes.Buffer
	require.NoError(t, ExportURLs(&empty, nil, FormatJSON))
	assert.Equal(t, "[]\n", empty.String())

	assert.Error(t, ExportURLs(&bytes.Buffer{}, records, FormatYAML))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHistory(&buf, []core.HistoryEntry{
		{Source: "a.eml", Timestamp: "2024-05-01 10:00:00", IsPhishing: 1, Probability: 0.9},
	}))
	assert.Contains(t, buf.String(), "phishing")
	assert.Contains(t, buf.String(), " 90.0%")

	buf.Reset()
	require.NoError(t, RenderHistory(&buf, nil))
	assert.Equal(t, "No analysis history.\n", buf.String())
}
