package whitelist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker exempts trusted domains, and their subdomains, from suspicion heuristics
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new whitelist checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	// Normalize domains (lowercase, no leading "@" or "*.")
	normalized := make(map[string]struct{}, len(domains))
	names := make([]string, 0, len(domains))
	for _, domain := range domains {
		d := strings.ToLower(strings.TrimSpace(domain))
		d = strings.TrimPrefix(d, "@")
		d = strings.TrimPrefix(d, "*.")
		if d == "" {
			continue
		}
		if _, ok := normalized[d]; !ok {
			normalized[d] = struct{}{}
			names = append(names, d)
		}
	}

	if len(names) > 0 && logger != nil {
		logger.Info("Initialized whitelist checker", zap.Strings("domains", names))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsTrusted checks if the domain or any parent domain is whitelisted
func (c *Checker) IsTrusted(domain string) bool {
	if len(c.domains) == 0 {
		return false
	}

	for d := domain; d != ""; {
		if _, ok := c.domains[d]; ok {
			if c.logger != nil {
				c.logger.Debug("Domain is whitelisted",
					zap.String("domain", domain),
					zap.String("matched", d))
			}
			return true
		}
		i := strings.Index(d, ".")
		if i < 0 {
			break
		}
		d = d[i+1:]
	}

	return false
}

// Len returns the number of whitelisted domains
func (c *Checker) Len() int {
	return len(c.domains)
}
