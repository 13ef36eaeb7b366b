package analyzers

import (
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/utils"
)

var (
	urlPattern        = regexp.MustCompile(`https?://(?:[-\w.]|%[0-9a-fA-F]{2})+[/\w.-]*(?:\?[\w./:;=%&+-]*)?`)
	ipURLPattern      = regexp.MustCompile(`^https?://\d{1,3}(?:\.\d{1,3}){3}`)
	anchorPattern     = regexp.MustCompile(`(?is)<a\s+(?:[^>]*?\s+)?href=(?:"([^"]*)"|'([^']*)')[^>]*>(.*?)</a>`)
	linkDomainPattern = regexp.MustCompile(`[\w-]+\.[\w-]+(?:\.[\w-]+)*`)
)

// URLExtractor finds links and classifies them
type URLExtractor struct {
	logger *zap.Logger
}

// NewURLExtractor creates a new URL extractor
func NewURLExtractor(logger *zap.Logger) *URLExtractor {
	return &URLExtractor{logger: logger}
}

// AnalyzeURLs implements core.URLAnalyzer
func (x *URLExtractor) AnalyzeURLs(email *core.Email) core.URLSignals {
	urls := dedupe(append(FindURLs(email.Body), FindURLs(email.Subject)...))

	signals := core.URLSignals{
		HasURLs:  len(urls) > 0,
		URLCount: len(urls),
		URLs:     urls,
	}

	for _, raw := range urls {
		host := hostname(raw)
		if shortenerHosts[host] {
			signals.HasShortenedURLs = true
		}
		if ipURLPattern.MatchString(raw) {
			signals.HasIPURLs = true
		}
		if i := strings.LastIndexByte(host, '.'); i >= 0 && suspiciousURLTLDs[host[i+1:]] {
			signals.HasSuspiciousTLDs = true
		}
	}

	signals.HasURLMismatch = HasAnchorMismatch(email.Body)

	if signals.HasURLs {
		x.logger.Debug("Extracted URLs", zap.Int("count", len(urls)), zap.Strings("urls", urls))
	}

	return signals
}

// FindURLs returns the URLs in text, without duplicates, in order of first appearance
func FindURLs(text string) []string {
	return dedupe(urlPattern.FindAllString(text, -1))
}

// HasAnchorMismatch reports whether an anchor's visible text names a
// different host than its href
func HasAnchorMismatch(body string) bool {
	for _, m := range anchorPattern.FindAllStringSubmatch(body, -1) {
		href := m[1]
		if href == "" {
			href = m[2]
		}
		hrefHost := hostname(href)
		if hrefHost == "" {
			continue
		}

		text := utils.StripHTML(m[3])
		if textURLs := FindURLs(text); len(textURLs) > 0 {
			if h := hostname(textURLs[0]); h != "" && h != hrefHost {
				return true
			}
		}
		for _, token := range linkDomainPattern.FindAllString(text, -1) {
			if strings.ToLower(token) != hrefHost {
				return true
			}
		}
	}
	return false
}

func hostname(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
