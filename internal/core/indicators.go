package core

// Threshold is the probability at or above which an email is phishing
const Threshold = 0.7

// IsPhishing applies the verdict threshold
func IsPhishing(probability float64) bool {
	return probability >= Threshold
}

type indicatorRule struct {
	keys      []SignalKey
	indicator Indicator
}

// indicatorRules is evaluated in order; a rule fires when any of its keys is set
var indicatorRules = []indicatorRule{
	{
		keys: []SignalKey{SignalSenderDomainMismatch},
		indicator: Indicator{
			Severity:    SeverityCritical,
			Name:        "Sender domain mismatch",
			Description: "The email's From, Reply-To, or Return-Path addresses use different domains, which is a common phishing tactic.",
		},
	},
	{
		keys: []SignalKey{SignalSenderDisplayNameMismatch},
		indicator: Indicator{
			Severity:    SeverityCritical,
			Name:        "Display name spoofing",
			Description: "The sender's display name tries to impersonate a trusted organization that doesn't match the actual email domain.",
		},
	},
	{
		keys: []SignalKey{SignalSenderSuspiciousWords},
		indicator: Indicator{
			Severity:    SeverityWarning,
			Name:        "Suspicious sender name",
			Description: "The sender's name contains terms commonly used in phishing attempts, like 'security', 'support', or 'admin'.",
		},
	},
	{
		keys: []SignalKey{SignalShortenedURLs},
		indicator: Indicator{
			Severity:    SeverityCritical,
			Name:        "Shortened URLs",
			Description: "The email contains shortened URLs that hide the actual destination, a common phishing tactic.",
		},
	},
	{
		keys: []SignalKey{SignalIPURLs},
		indicator: Indicator{
			Severity:    SeverityCritical,
			Name:        "IP address URLs",
			Description: "The email contains links with raw IP addresses instead of domain names, which is highly suspicious.",
		},
	},
	{
		keys: []SignalKey{SignalSuspiciousURLTLDs},
		indicator: Indicator{
			Severity:    SeverityWarning,
			Name:        "Suspicious URL domains",
			Description: "The email contains URLs with suspicious or uncommon top-level domains often used in phishing.",
		},
	},
	{
		keys: []SignalKey{SignalURLMismatch},
		indicator: Indicator{
			Severity:    SeverityCritical,
			Name:        "URL display mismatch",
			Description: "The email contains links where the visible text differs from the actual URL destination.",
		},
	},
	{
		keys: []SignalKey{SignalSubjectUrgency, SignalBodyUrgency},
		indicator: Indicator{
			Severity:    SeverityWarning,
			Name:        "Creates false urgency",
			Description: "The email creates a false sense of urgency to pressure you into taking immediate action without thinking.",
		},
	},
	{
		keys: []SignalKey{SignalSensitiveData},
		indicator: Indicator{
			Severity:    SeverityCritical,
			Name:        "Requests sensitive information",
			Description: "The email asks for passwords, account details, or other sensitive personal information.",
		},
	},
	{
		keys: []SignalKey{SignalSuspiciousClaims},
		indicator: Indicator{
			Severity:    SeverityWarning,
			Name:        "Suspicious claims or offers",
			Description: "The email contains claims about prizes, rewards, or offers that are likely fraudulent.",
		},
	},
	{
		keys: []SignalKey{SignalPoorGrammar},
		indicator: Indicator{
			Severity:    SeverityInfo,
			Name:        "Poor grammar or spelling",
			Description: "The email contains grammatical errors or unusual phrasing often seen in phishing attempts.",
		},
	},
	{
		keys: []SignalKey{SignalThreateningLanguage},
		indicator: Indicator{
			Severity:    SeverityWarning,
			Name:        "Contains threats or warnings",
			Description: "The email threatens negative consequences if you don't take immediate action.",
		},
	},
}

// GenerateIndicators maps signals to indicators in a fixed priority order
func GenerateIndicators(signals Signals) []Indicator {
	indicators := make([]Indicator, 0, len(indicatorRules))
	for _, rule := range indicatorRules {
		for _, key := range rule.keys {
			if signals.Flag(key) {
				indicators = append(indicators, rule.indicator)
				break
			}
		}
	}
	return indicators
}
