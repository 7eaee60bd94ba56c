package whitelist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether a host belongs to a trusted domain
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new trusted domain checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalized := make([]string, 0, len(domains))
	for _, domain := range domains {
		d := strings.Trim(strings.ToLower(strings.TrimSpace(domain)), ".")
		if d != "" {
			normalized = append(normalized, d)
		}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized trusted domain checker", zap.Strings("domains", normalized))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsTrusted reports whether host equals a trusted domain or is a subdomain of one
func (c *Checker) IsTrusted(host string) bool {
	if len(c.domains) == 0 {
		return false
	}

	host = strings.TrimSuffix(strings.ToLower(host), ".")
	for _, trusted := range c.domains {
		if host == trusted || strings.HasSuffix(host, "."+trusted) {
			if c.logger != nil {
				c.logger.Debug("Host is trusted",
					zap.String("host", host),
					zap.String("domain", trusted))
			}
			return true
		}
	}

	return false
}

// IsTrustedSender reports whether the domain part of an email address is trusted
func (c *Checker) IsTrustedSender(address string) bool {
	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return false
	}
	return c.IsTrusted(address[at+1:])
}
