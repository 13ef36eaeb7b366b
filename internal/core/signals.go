package core

// SignalSchemaVersion is bumped whenever a signal is added or removed
const SignalSchemaVersion = 1

// SignalKey names a boolean signal
type SignalKey string

const (
	SignalSenderDomainMismatch      SignalKey = "sender_domain_mismatch"
	SignalSenderDisplayNameMismatch SignalKey = "sender_display_name_mismatch"
	SignalSenderFreeEmail           SignalKey = "sender_free_email"
	SignalSenderSuspiciousTLD       SignalKey = "sender_suspicious_tld"
	SignalSenderHasNumbers          SignalKey = "sender_has_numbers"
	SignalSenderSuspiciousWords     SignalKey = "sender_has_suspicious_words"

	SignalHasURLs           SignalKey = "has_urls"
	SignalShortenedURLs     SignalKey = "has_shortened_urls"
	SignalIPURLs            SignalKey = "has_ip_urls"
	SignalSuspiciousURLTLDs SignalKey = "has_suspicious_tlds"
	SignalURLMismatch       SignalKey = "has_url_mismatch"

	SignalSubjectUrgency      SignalKey = "subject_has_urgency"
	SignalBodyUrgency         SignalKey = "body_has_urgency"
	SignalSensitiveData       SignalKey = "requests_sensitive_data"
	SignalSuspiciousClaims    SignalKey = "has_suspicious_claims"
	SignalPoorGrammar         SignalKey = "has_poor_grammar"
	SignalThreateningLanguage SignalKey = "has_threatening_language"
)

// SignalKeys lists every boolean signal in a stable order
var SignalKeys = []SignalKey{
	SignalSenderDomainMismatch,
	SignalSenderDisplayNameMismatch,
	SignalSenderFreeEmail,
	SignalSenderSuspiciousTLD,
	SignalSenderHasNumbers,
	SignalSenderSuspiciousWords,
	SignalHasURLs,
	SignalShortenedURLs,
	SignalIPURLs,
	SignalSuspiciousURLTLDs,
	SignalURLMismatch,
	SignalSubjectUrgency,
	SignalBodyUrgency,
	SignalSensitiveData,
	SignalSuspiciousClaims,
	SignalPoorGrammar,
	SignalThreateningLanguage,
}

// SenderSignals are derived from the From, Reply-To and Return-Path headers
type SenderSignals struct {
	DomainMismatch      bool   `json:"sender_domain_mismatch" yaml:"sender_domain_mismatch"`
	DisplayNameMismatch bool   `json:"sender_display_name_mismatch" yaml:"sender_display_name_mismatch"`
	FreeEmail           bool   `json:"sender_free_email" yaml:"sender_free_email"`
	SuspiciousTLD       bool   `json:"sender_suspicious_tld" yaml:"sender_suspicious_tld"`
	HasNumbers          bool   `json:"sender_has_numbers" yaml:"sender_has_numbers"`
	SuspiciousWords     bool   `json:"sender_has_suspicious_words" yaml:"sender_has_suspicious_words"`
	Email               string `json:"sender_email" yaml:"sender_email"`
	DisplayName         string `json:"sender_display_name" yaml:"sender_display_name"`
	Domain              string `json:"sender_domain" yaml:"sender_domain"`
}

// URLSignals describe the links found in the subject and body
type URLSignals struct {
	HasURLs           bool     `json:"has_urls" yaml:"has_urls"`
	URLCount          int      `json:"url_count" yaml:"url_count"`
	HasShortenedURLs  bool     `json:"has_shortened_urls" yaml:"has_shortened_urls"`
	HasIPURLs         bool     `json:"has_ip_urls" yaml:"has_ip_urls"`
	HasSuspiciousTLDs bool     `json:"has_suspicious_tlds" yaml:"has_suspicious_tlds"`
	HasURLMismatch    bool     `json:"has_url_mismatch" yaml:"has_url_mismatch"`
	URLs              []string `json:"urls" yaml:"urls"`
}

// ContentSignals are the lexical findings over subject and body
type ContentSignals struct {
	SubjectHasUrgency      bool `json:"subject_has_urgency" yaml:"subject_has_urgency"`
	BodyHasUrgency         bool `json:"body_has_urgency" yaml:"body_has_urgency"`
	RequestsSensitiveData  bool `json:"requests_sensitive_data" yaml:"requests_sensitive_data"`
	HasSuspiciousClaims    bool `json:"has_suspicious_claims" yaml:"has_suspicious_claims"`
	HasPoorGrammar         bool `json:"has_poor_grammar" yaml:"has_poor_grammar"`
	HasThreateningLanguage bool `json:"has_threatening_language" yaml:"has_threatening_language"`
}

// Signals is the merged output of all analyzers. It serializes as a flat
// object keyed by signal name.
type Signals struct {
	SchemaVersion  int `json:"schema_version" yaml:"schema_version"`
	SenderSignals  `yaml:",inline"`
	URLSignals     `yaml:",inline"`
	ContentSignals `yaml:",inline"`
}

// MergeSignals combines the per-analyzer outputs
func MergeSignals(sender SenderSignals, urls URLSignals, content ContentSignals) Signals {
	return Signals{
		SchemaVersion:  SignalSchemaVersion,
		SenderSignals:  sender,
		URLSignals:     urls,
		ContentSignals: content,
	}
}

// Flag returns the value of a boolean signal
func (s Signals) Flag(key SignalKey) bool {
	switch key {
	case SignalSenderDomainMismatch:
		return s.SenderSignals.DomainMismatch
	case SignalSenderDisplayNameMismatch:
		return s.SenderSignals.DisplayNameMismatch
	case SignalSenderFreeEmail:
		return s.SenderSignals.FreeEmail
	case SignalSenderSuspiciousTLD:
		return s.SenderSignals.SuspiciousTLD
	case SignalSenderHasNumbers:
		return s.SenderSignals.HasNumbers
	case SignalSenderSuspiciousWords:
		return s.SenderSignals.SuspiciousWords
	case SignalHasURLs:
		return s.URLSignals.HasURLs
	case SignalShortenedURLs:
		return s.URLSignals.HasShortenedURLs
	case SignalIPURLs:
		return s.URLSignals.HasIPURLs
	case SignalSuspiciousURLTLDs:
		return s.URLSignals.HasSuspiciousTLDs
	case SignalURLMismatch:
		return s.URLSignals.HasURLMismatch
	case SignalSubjectUrgency:
		return s.ContentSignals.SubjectHasUrgency
	case SignalBodyUrgency:
		return s.ContentSignals.BodyHasUrgency
	case SignalSensitiveData:
		return s.ContentSignals.RequestsSensitiveData
	case SignalSuspiciousClaims:
		return s.ContentSignals.HasSuspiciousClaims
	case SignalPoorGrammar:
		return s.ContentSignals.HasPoorGrammar
	case SignalThreateningLanguage:
		return s.ContentSignals.HasThreateningLanguage
	}
	return false
}

// Active returns the boolean signals that are set, in SignalKeys order
func (s Signals) Active() []SignalKey {
	var active []SignalKey
	for _, key := range SignalKeys {
		if s.Flag(key) {
			active = append(active, key)
		}
	}
	return active
}
