package core

import (
	"net/textproto"
	"time"
)

// TimestampLayout is the layout used for timestamps in stored records
const TimestampLayout = "2006-01-02 15:04:05"

// EmailFormat identifies which parsing path produced an Email
type EmailFormat string

const (
	FormatMIME EmailFormat = "mime"
	FormatRaw  EmailFormat = "raw"
)

// Email represents a parsed email message. It is not modified after the
// parser returns it.
type Email struct {
	Headers         map[string]string `json:"headers" yaml:"headers"`
	From            string            `json:"from" yaml:"from"`
	To              string            `json:"to" yaml:"to"`
	Subject         string            `json:"subject" yaml:"subject"`
	Date            string            `json:"date" yaml:"date"`
	ReturnPath      string            `json:"return_path" yaml:"return_path"`
	ReplyTo         string            `json:"reply_to" yaml:"reply_to"`
	Body            string            `json:"body" yaml:"body"`
	IsMultipart     bool              `json:"is_multipart" yaml:"is_multipart"`
	HasHTML         bool              `json:"has_html" yaml:"has_html"`
	AttachmentCount int               `json:"attachment_count" yaml:"attachment_count"`
	Format          EmailFormat       `json:"format" yaml:"format"`
}

// Header returns the value of the named header, ignoring case
func (e *Email) Header(name string) string {
	if e == nil || e.Headers == nil {
		return ""
	}
	return e.Headers[textproto.CanonicalMIMEHeaderKey(name)]
}

// Text returns the text the feature vector is computed from
func (e *Email) Text() string {
	return e.Body + " " + e.Subject + " " + e.From
}

// FeatureVector is the numeric classifier input
type FeatureVector []float64

// Severity ranks an indicator
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Indicator is a human-readable finding explaining part of a verdict
type Indicator struct {
	Severity    Severity `json:"severity" yaml:"severity"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
}

// Scoring is the classifier outcome for one feature vector
type Scoring struct {
	Probability float64
	Model       string
	// Fallback is empty when the model produced the probability
	Fallback string
}

// AnalysisResult represents the result of phishing analysis
type AnalysisResult struct {
	ID             string        `json:"id" yaml:"id"`
	Probability    float64       `json:"probability" yaml:"probability"`
	IsPhishing     bool          `json:"is_phishing" yaml:"is_phishing"`
	Indicators     []Indicator   `json:"indicators" yaml:"indicators"`
	URLs           []string      `json:"urls" yaml:"urls"`
	Signals        Signals       `json:"signals" yaml:"signals"`
	Email          *Email        `json:"email" yaml:"email"`
	Source         string        `json:"source" yaml:"source"`
	Timestamp      time.Time     `json:"timestamp" yaml:"timestamp"`
	ModelUsed      string        `json:"model_used" yaml:"model_used"`
	ProcessingTime time.Duration `json:"processing_time" yaml:"processing_time"`
}

// RiskLevel grades a stored URL
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// ParseRiskLevel returns the risk level matching s, or false
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return RiskLevel(s), true
	}
	return "", false
}

// URLRecord is an entry of the suspicious URL store
type URLRecord struct {
	URL       string    `json:"url" yaml:"url"`
	Source    string    `json:"source" yaml:"source"`
	DateAdded string    `json:"date_added" yaml:"date_added"`
	RiskLevel RiskLevel `json:"risk_level" yaml:"risk_level"`
}

// HistoryEntry summarizes one past analysis
type HistoryEntry struct {
	Source      string  `json:"source" yaml:"source"`
	Timestamp   string  `json:"timestamp" yaml:"timestamp"`
	IsPhishing  int     `json:"is_phishing" yaml:"is_phishing"`
	Probability float64 `json:"probability" yaml:"probability"`
}

// HistoryLimit is the number of history entries kept
const HistoryLimit = 10

// NewHistoryEntry builds the history record for a result
func NewHistoryEntry(result *AnalysisResult) HistoryEntry {
	entry := HistoryEntry{
		Source:      result.Source,
		Timestamp:   result.Timestamp.Format(TimestampLayout),
		Probability: result.Probability,
	}
	if result.IsPhishing {
		entry.IsPhishing = 1
	}
	return entry
}
