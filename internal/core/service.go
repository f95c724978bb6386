package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BulkOptions controls how ClassifyBulk spreads work across goroutines
type BulkOptions struct {
	Workers           int
	ParallelThreshold int
}

// DefaultBulkOptions returns the default bulk settings
func DefaultBulkOptions() BulkOptions {
	return BulkOptions{
		Workers:           8,
		ParallelThreshold: 64,
	}
}

// VerifierService is the core service for domain classification
type VerifierService struct {
	store      DomainStore
	heuristics *Heuristics
	logger     *zap.Logger
	bulk       BulkOptions
}

// NewVerifierService creates a new verifier service
func NewVerifierService(
	store DomainStore,
	heuristics *Heuristics,
	logger *zap.Logger,
	bulk BulkOptions,
) *VerifierService {
	if bulk.Workers <= 0 {
		bulk.Workers = 1
	}
	return &VerifierService{
		store:      store,
		heuristics: heuristics,
		logger:     logger,
		bulk:       bulk,
	}
}

// Classify classifies a single email address.
// Only a store failure produces an error; malformed input is reported in the result.
func (s *VerifierService) Classify(ctx context.Context, email string) (*VerificationResult, error) {
	result := &VerificationResult{Email: email}

	domain, ok := NormalizeEmail(email)
	if !ok {
		result.Message = MessageInvalid
		return result, nil
	}
	result.IsValid = true
	result.Domain = domain

	disposable, err := s.store.Contains(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup %s: %w", ErrStoreUnavailable, domain, err)
	}
	result.IsDisposable = disposable

	result.IsSuspicious, result.Reasons = s.heuristics.Evaluate(domain)

	switch {
	case result.IsDisposable:
		result.Message = MessageDisposable
	case result.IsSuspicious:
		result.Message = MessageSuspicious
	default:
		result.Message = MessageLegitimate
	}

	return result, nil
}

// ClassifyBulk classifies every address, preserving input order in Results
func (s *VerifierService) ClassifyBulk(ctx context.Context, emails []string) (*BulkVerificationResult, error) {
	results := make([]*VerificationResult, len(emails))

	if len(emails) <= s.bulk.ParallelThreshold || s.bulk.Workers == 1 {
		for i, email := range emails {
			result, err := s.Classify(ctx, email)
			if err != nil {
				return nil, err
			}
			results[i] = result
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.bulk.Workers)
		for i, email := range emails {
			g.Go(func() error {
				result, err := s.Classify(gctx, email)
				if err != nil {
					return err
				}
				results[i] = result
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	bulk := &BulkVerificationResult{
		Total:   len(emails),
		Results: results,
	}
	for _, r := range results {
		if r.IsValid {
			bulk.ValidCount++
		}
		if r.IsDisposable {
			bulk.DisposableCount++
		}
		if r.IsSuspicious {
			bulk.SuspiciousCount++
		}
	}

	s.logger.Debug("Bulk classification complete",
		zap.Int("total", bulk.Total),
		zap.Int("disposable", bulk.DisposableCount),
		zap.Int("suspicious", bulk.SuspiciousCount))

	return bulk, nil
}

// Populate loads candidate domains into the store under the "manual" source
func (s *VerifierService) Populate(ctx context.Context, entries []string) (*PopulateResult, error) {
	return s.PopulateFrom(ctx, "manual", entries)
}

// PopulateFrom loads candidate domains into the store.
// Malformed entries are skipped and counted; a store failure aborts the run
// and returns the counts reached so far alongside the error.
func (s *VerifierService) PopulateFrom(ctx context.Context, origin string, entries []string) (*PopulateResult, error) {
	result := &PopulateResult{RunID: uuid.NewString()}
	now := time.Now().UTC()

	for _, entry := range entries {
		domain, ok := NormalizeDomain(entry)
		if !ok {
			result.Skipped++
			s.logger.Debug("Skipping malformed domain entry",
				zap.String("entry", entry),
				zap.String("source", origin))
			continue
		}

		inserted, err := s.store.Upsert(ctx, &DisposableDomainRecord{
			Domain:    domain,
			Source:    origin,
			AddedAt:   now,
			UpdatedAt: now,
		})
		if err != nil {
			return result, fmt.Errorf("%w: upsert %s: %w", ErrStoreUnavailable, domain, err)
		}
		if inserted {
			result.Added++
		} else {
			result.Existing++
		}
	}

	s.logger.Info("Populated disposable domains",
		zap.String("run_id", result.RunID),
		zap.String("source", origin),
		zap.Int("added", result.Added),
		zap.Int("existing", result.Existing),
		zap.Int("skipped", result.Skipped))

	return result, nil
}

// PopulateSources fetches and loads every source in order.
// A failing source is logged and skipped; a store failure stops the run.
func (s *VerifierService) PopulateSources(ctx context.Context, sources []DomainSource) (*PopulateResult, error) {
	total := &PopulateResult{RunID: uuid.NewString()}
	var fetchErrs []error

	for _, src := range sources {
		entries, err := src.Fetch(ctx)
		if err != nil {
			s.logger.Warn("Failed to fetch domain source",
				zap.String("source", src.Name()),
				zap.Error(err))
			fetchErrs = append(fetchErrs, fmt.Errorf("source %s: %w", src.Name(), err))
			continue
		}

		result, err := s.PopulateFrom(ctx, src.Name(), entries)
		if result != nil {
			total.Added += result.Added
			total.Existing += result.Existing
			total.Skipped += result.Skipped
		}
		if err != nil {
			return total, err
		}
	}

	if len(sources) > 0 && len(fetchErrs) == len(sources) {
		return total, fmt.Errorf("all domain sources failed: %w", errors.Join(fetchErrs...))
	}

	return total, nil
}

// Status reports the size of the store. The store is ready once it holds
// at least one domain; an empty or fully malformed population leaves it unready.
func (s *VerifierService) Status(ctx context.Context) (*StoreStatus, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: count: %w", ErrStoreUnavailable, err)
	}
	return &StoreStatus{
		DomainCount: count,
		Ready:       count > 0,
	}, nil
}
