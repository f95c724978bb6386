package core

import (
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"
)

const (
	maxEmailLength  = 254
	maxDomainLength = 253
)

// NormalizeEmail lower-cases and trims an email address and returns its domain.
// ok is false when the address is not syntactically usable.
func NormalizeEmail(raw string) (domain string, ok bool) {
	email := normalizeText(raw)
	if email == "" || len(email) > maxEmailLength {
		return "", false
	}

	if strings.Count(email, "@") != 1 {
		return "", false
	}

	at := strings.LastIndex(email, "@")
	local, host := email[:at], email[at+1:]
	if local == "" || host == "" {
		return "", false
	}

	domain, ok = validateDomain(host)
	if !ok {
		return "", false
	}
	return domain, true
}

// NormalizeDomain normalizes a bare domain such as a population entry.
// A single leading "@" is accepted so that lists written as "@example.com" load.
func NormalizeDomain(raw string) (string, bool) {
	domain := normalizeText(raw)
	domain = strings.TrimPrefix(domain, "@")
	if domain == "" {
		return "", false
	}
	return validateDomain(domain)
}

func normalizeText(raw string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(raw)))
}

func validateDomain(domain string) (string, bool) {
	if len(domain) > maxDomainLength || !strings.Contains(domain, ".") {
		return "", false
	}

	for _, label := range strings.Split(domain, ".") {
		if label == "" {
			return "", false
		}
	}

	// IDNA conversion validates label syntax; the lookup key stays as written
	if _, err := idna.Lookup.ToASCII(domain); err != nil {
		return "", false
	}

	return domain, true
}
