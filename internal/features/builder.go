// Package features reduces an email to the numeric vector the classifier
// consumes.
package features

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/utils"
)

// Dimension is the length of the vectors produced by Builder
const Dimension = 10

// senderWindow is how many leading characters are checked for sender keywords
const senderWindow = 500

// Names lists the features in vector order
var Names = [Dimension]string{
	"suspicious_sender",
	"has_url",
	"shortened_url",
	"ip_url",
	"urgency",
	"sensitive_request",
	"attachment_mention",
	"financial_terms",
	"threat_terms",
	"offer_terms",
}

var (
	anyURLPattern = regexp.MustCompile(`https?://(?:[-\w.]|%[0-9a-fA-F]{2})+`)
	ipURLPattern  = regexp.MustCompile(`https?://\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)

	senderKeywords  = []string{"paypal", "bank", "account", "security", "update", "verify", "amazon"}
	shortenerNames  = []string{"bit.ly", "tinyurl.com", "goo.gl", "t.co", "ow.ly", "is.gd"}
	urgencyWords    = []string{"urgent", "immediately", "alert", "verify", "suspend", "restrict", "limited", "expires", "validate", "confirm"}
	sensitiveWords  = []string{"password", "credit card", "ssn", "social security", "credentials", "login", "username", "pin", "bank account", "billing"}
	attachmentWords = []string{"attach", "document", "file", "pdf", "doc", "invoice", "receipt", "statement"}
	financialWords  = []string{"$", "dollar", "payment", "transfer", "transaction", "wire", "money", "credit", "debit", "cash", "fund", "tax", "refund"}
	threatWords     = []string{"suspended", "terminated", "unauthorized", "closed", "limited", "suspicious activity", "unusual", "breach", "compromised", "fraud"}
	offerWords      = []string{"won", "winner", "prize", "million", "free", "discount", "offer", "reward", "gift", "claim", "congratulations", "selected"}
)

// Builder implements core.FeatureExtractor
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a new feature vector builder
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build computes the binary feature vector from body, subject and sender
func (b *Builder) Build(email *core.Email) core.FeatureVector {
	text := utils.Lower(email.Text())

	head := text
	if runes := []rune(text); len(runes) > senderWindow {
		head = string(runes[:senderWindow])
	}

	vector := core.FeatureVector{
		flag(utils.ContainsAny(head, senderKeywords)),
		flag(anyURLPattern.MatchString(text)),
		flag(utils.ContainsAny(text, shortenerNames)),
		flag(ipURLPattern.MatchString(text)),
		flag(utils.ContainsAny(text, urgencyWords)),
		flag(utils.ContainsAny(text, sensitiveWords)),
		flag(utils.ContainsAny(text, attachmentWords)),
		flag(utils.ContainsAny(text, financialWords)),
		flag(utils.ContainsAny(text, threatWords)),
		flag(utils.ContainsAny(text, offerWords)),
	}

	b.logger.Debug("Built feature vector", zap.Float64s("features", vector))
	return vector
}

// Describe pairs each feature name with its value
func Describe(vector core.FeatureVector) map[string]float64 {
	named := make(map[string]float64, len(Names))
	for i, name := range Names {
		if i < len(vector) {
			named[name] = vector[i]
		}
	}
	return named
}

func flag(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}

// FormatVector renders a vector as name=value pairs in order
func FormatVector(vector core.FeatureVector) string {
	var sb strings.Builder
	for i, name := range Names {
		if i >= len(vector) {
			break
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		if vector[i] >= 0.5 {
			sb.WriteString("=1")
		} else {
			sb.WriteString("=0")
		}
	}
	return sb.String()
}
