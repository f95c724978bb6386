package core

import (
	"strings"

	"go.uber.org/zap"
)

// DefaultSuspiciousPatterns are substrings that commonly appear in throwaway domains.
// Matching is intentionally loose and produces false positives.
var DefaultSuspiciousPatterns = []string{
	"temp",
	"fake",
	"trash",
	"disposable",
	"throwaway",
	"burner",
	"junk",
	"spam",
}

// Rule is a single suspicion predicate over a normalized domain
type Rule interface {
	Name() string
	Match(domain string) bool
}

// NumericLabelRule flags domains with a digits-only label below the TLD,
// a common shape for auto-generated throwaway hosts
type NumericLabelRule struct{}

// Name returns the rule name
func (NumericLabelRule) Name() string { return "numeric_label" }

// Match reports whether any non-TLD label is all digits
func (NumericLabelRule) Match(domain string) bool {
	labels := strings.Split(domain, ".")
	for _, label := range labels[:len(labels)-1] {
		if isDigits(label) {
			return true
		}
	}
	return false
}

// PatternRule flags domains containing any of a list of substrings
type PatternRule struct {
	patterns []string
}

// NewPatternRule creates a pattern rule; empty patterns are ignored
func NewPatternRule(patterns []string) *PatternRule {
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			normalized = append(normalized, p)
		}
	}
	return &PatternRule{patterns: normalized}
}

// Name returns the rule name
func (r *PatternRule) Name() string { return "lexical_pattern" }

// Match reports whether the domain contains a suspicious substring
func (r *PatternRule) Match(domain string) bool {
	for _, p := range r.patterns {
		if strings.Contains(domain, p) {
			return true
		}
	}
	return false
}

// TLDRule flags an unusually short or malformed top-level label
type TLDRule struct {
	MinLength int
}

// Name returns the rule name
func (r TLDRule) Name() string { return "malformed_tld" }

// Match reports whether the TLD is too short or contains digits or hyphens.
// Punycode TLDs are accepted.
func (r TLDRule) Match(domain string) bool {
	tld := domain[strings.LastIndex(domain, ".")+1:]
	if strings.HasPrefix(tld, "xn--") {
		return false
	}
	if len(tld) < r.MinLength {
		return true
	}
	for _, c := range tld {
		if (c >= '0' && c <= '9') || c == '-' {
			return true
		}
	}
	return false
}

// Heuristics evaluates a set of rules as a disjunction
type Heuristics struct {
	rules   []Rule
	trusted TrustedDomains
	logger  *zap.Logger
}

// NewHeuristics creates a heuristics evaluator. trusted may be nil.
func NewHeuristics(rules []Rule, trusted TrustedDomains, logger *zap.Logger) *Heuristics {
	return &Heuristics{
		rules:   rules,
		trusted: trusted,
		logger:  logger,
	}
}

// DefaultRules returns the built-in rule set
func DefaultRules() []Rule {
	return []Rule{
		NumericLabelRule{},
		NewPatternRule(DefaultSuspiciousPatterns),
		TLDRule{MinLength: 2},
	}
}

// Evaluate reports whether the domain is suspicious and which rules fired.
// All rules run so that every reason is reported.
func (h *Heuristics) Evaluate(domain string) (bool, []string) {
	if h.trusted != nil && h.trusted.IsTrusted(domain) {
		return false, nil
	}

	var reasons []string
	for _, rule := range h.rules {
		if rule.Match(domain) {
			reasons = append(reasons, rule.Name())
		}
	}

	if len(reasons) > 0 && h.logger != nil {
		h.logger.Debug("Domain flagged by heuristics",
			zap.String("domain", domain),
			zap.Strings("rules", reasons))
	}

	return len(reasons) > 0, reasons
}

// Rules returns the names of the configured rules
func (h *Heuristics) Rules() []string {
	names := make([]string, len(h.rules))
	for i, rule := range h.rules {
		names[i] = rule.Name()
	}
	return names
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
