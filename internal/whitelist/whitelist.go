package whitelist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether URL hosts belong to trusted domains
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new allowlist checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	// Normalize domains (lowercase, no leading dot)
	normalizedDomains := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), ".")
		if domain != "" {
			normalizedDomains = append(normalizedDomains, domain)
		}
	}

	if len(normalizedDomains) > 0 && logger != nil {
		logger.Info("Initialized allowlist checker", zap.Strings("domains", normalizedDomains))
	}

	return &Checker{
		domains: normalizedDomains,
		logger:  logger,
	}
}

// IsTrustedHost reports whether host is a listed domain or a subdomain of one.
// It implements core.HostFilter.
func (c *Checker) IsTrustedHost(host string) bool {
	if len(c.domains) == 0 || host == "" {
		return false
	}

	host = strings.TrimSuffix(strings.ToLower(host), ".")
	for _, trusted := range c.domains {
		if host == trusted || strings.HasSuffix(host, "."+trusted) {
			if c.logger != nil {
				c.logger.Debug("Host is allowlisted",
					zap.String("host", host),
					zap.String("domain", trusted))
			}
			return true
		}
	}

	return false
}
