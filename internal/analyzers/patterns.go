package analyzers

import (
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/utils"
)

// PatternScanner matches subject and body against the phrase lexicons
type PatternScanner struct {
	logger *zap.Logger
}

// NewPatternScanner creates a new pattern scanner
func NewPatternScanner(logger *zap.Logger) *PatternScanner {
	return &PatternScanner{logger: logger}
}

// ScanPatterns implements core.PatternScanner
func (s *PatternScanner) ScanPatterns(email *core.Email) core.ContentSignals {
	subject := utils.Lower(email.Subject)
	body := utils.Lower(email.Body)

	return core.ContentSignals{
		SubjectHasUrgency:      utils.ContainsAny(subject, subjectUrgencyWords),
		BodyHasUrgency:         utils.ContainsAny(body, bodyUrgencyPhrases),
		RequestsSensitiveData:  utils.ContainsAny(body, sensitiveDataTerms),
		HasSuspiciousClaims:    utils.ContainsAny(body, claimTerms),
		HasPoorGrammar:         utils.ContainsAny(body, poorGrammarPhrases),
		HasThreateningLanguage: utils.ContainsAny(body, threatTerms),
	}
}
