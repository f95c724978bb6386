package core

import (
	"context"
	"errors"
)

var (
	// ErrStoreUnavailable is returned when the reference store cannot be queried or written
	ErrStoreUnavailable = errors.New("domain store unavailable")
	// ErrNoReviewer is returned when a review is requested without a configured reviewer
	ErrNoReviewer = errors.New("no domain reviewer configured")
)

// DomainStore defines the interface for the disposable domain reference set.
// Domains passed in are already normalized.
type DomainStore interface {
	// Contains reports whether the domain is a known disposable domain
	Contains(ctx context.Context, domain string) (bool, error)

	// Upsert adds the record if its domain is new and reports whether it was added.
	// Re-adding an existing domain only refreshes its metadata.
	Upsert(ctx context.Context, record *DisposableDomainRecord) (bool, error)

	// Count returns the number of stored domains
	Count(ctx context.Context) (int, error)
}

// DomainSource supplies candidate disposable domains for population
type DomainSource interface {
	// Name identifies the source in records and logs
	Name() string

	// Fetch returns the candidate domains in source order
	Fetch(ctx context.Context) ([]string, error)
}

// DomainReviewer defines the interface for asking a model whether a domain is disposable
type DomainReviewer interface {
	ReviewDomain(ctx context.Context, domain string) (*DomainReview, error)
}

// TrustedDomains exempts domains from the suspicion heuristics
type TrustedDomains interface {
	IsTrusted(domain string) bool
}
