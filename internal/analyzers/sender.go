package analyzers

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/utils"
)

var (
	addressPattern     = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	displayNamePattern = regexp.MustCompile(`^([^<]+)<`)
	domainTokenPattern = regexp.MustCompile(`\b([a-z0-9-]+\.[a-z0-9-]+(?:\.[a-z0-9-]+)*)\b`)
	digitRunPattern    = regexp.MustCompile(`\d{3,}`)
)

// SenderAnalyzer derives sender trust signals from the address headers
type SenderAnalyzer struct {
	logger *zap.Logger
}

// NewSenderAnalyzer creates a new sender analyzer
func NewSenderAnalyzer(logger *zap.Logger) *SenderAnalyzer {
	return &SenderAnalyzer{logger: logger}
}

// AnalyzeSender implements core.SenderAnalyzer
func (a *SenderAnalyzer) AnalyzeSender(email *core.Email) core.SenderSignals {
	var signals core.SenderSignals

	fromAddr := ExtractAddress(email.From)
	fromDomain := DomainOf(fromAddr)
	displayName := ExtractDisplayName(email.From)

	signals.Email = fromAddr
	signals.Domain = fromDomain
	signals.DisplayName = strings.Trim(displayName, `"' `)

	if fromDomain != "" {
		for _, other := range []string{email.ReplyTo, email.ReturnPath} {
			if d := DomainOf(ExtractAddress(other)); d != "" && d != fromDomain {
				signals.DomainMismatch = true
				break
			}
		}
	}

	if displayName != "" && fromDomain != "" {
		signals.DisplayNameMismatch = displayNameSpoofed(utils.Lower(displayName), fromDomain)
	}

	signals.FreeEmail = freeEmailDomains[fromDomain]
	if i := strings.LastIndexByte(fromDomain, '.'); i >= 0 {
		signals.SuspiciousTLD = suspiciousSenderTLDs[fromDomain[i+1:]]
	}
	signals.HasNumbers = digitRunPattern.MatchString(fromAddr)
	signals.SuspiciousWords = utils.ContainsAny(utils.Lower(email.From), suspiciousSenderWords)

	if signals.DomainMismatch || signals.DisplayNameMismatch {
		a.logger.Debug("Sender inconsistency detected",
			zap.String("sender", fromAddr),
			zap.Bool("domain_mismatch", signals.DomainMismatch),
			zap.Bool("display_name_mismatch", signals.DisplayNameMismatch))
	}

	return signals
}

func displayNameSpoofed(displayName, fromDomain string) bool {
	for _, token := range domainTokenPattern.FindAllString(displayName, -1) {
		if token != fromDomain && !strings.Contains(fromDomain, token) && !strings.Contains(token, fromDomain) {
			return true
		}
	}
	for _, brand := range brandTerms {
		if strings.Contains(displayName, brand) && !strings.Contains(fromDomain, brand) {
			return true
		}
	}
	return false
}

// ExtractAddress returns the first bare address in a header value
func ExtractAddress(header string) string {
	return addressPattern.FindString(header)
}

// ExtractDisplayName returns the text before the angle-bracketed address
func ExtractDisplayName(header string) string {
	m := displayNamePattern.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// DomainOf returns the lower-cased domain part of an address
func DomainOf(addr string) string {
	i := strings.LastIndexByte(addr, '@')
	if i < 0 {
		return ""
	}
	return strings.ToLower(addr[i+1:])
}
