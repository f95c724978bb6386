package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ReviewService asks a model about domains that are not yet in the store
// and optionally promotes confident disposable verdicts into it.
// It is an offline triage tool and never runs on the classification path.
type ReviewService struct {
	reviewer  DomainReviewer
	store     DomainStore
	logger    *zap.Logger
	threshold float64
	apply     bool
}

// NewReviewService creates a new review service. reviewer may be nil when no
// provider is configured, in which case Review returns ErrNoReviewer.
func NewReviewService(
	reviewer DomainReviewer,
	store DomainStore,
	logger *zap.Logger,
	threshold float64,
	apply bool,
) *ReviewService {
	return &ReviewService{
		reviewer:  reviewer,
		store:     store,
		logger:    logger,
		threshold: threshold,
		apply:     apply,
	}
}

// Review reviews each domain in order. Reviewer failures are recorded per
// domain; a store failure aborts the run.
func (s *ReviewService) Review(ctx context.Context, domains []string) ([]*ReviewOutcome, error) {
	if s.reviewer == nil {
		return nil, ErrNoReviewer
	}

	outcomes := make([]*ReviewOutcome, 0, len(domains))
	for _, input := range domains {
		outcome, err := s.reviewOne(ctx, input)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (s *ReviewService) reviewOne(ctx context.Context, input string) (*ReviewOutcome, error) {
	outcome := &ReviewOutcome{Input: input}

	domain, ok := NormalizeDomain(input)
	if !ok {
		outcome.Status = ReviewStatusInvalid
		return outcome, nil
	}
	outcome.Domain = domain

	known, err := s.store.Contains(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup %s: %w", ErrStoreUnavailable, domain, err)
	}
	if known {
		outcome.Status = ReviewStatusKnown
		return outcome, nil
	}

	review, err := s.reviewer.ReviewDomain(ctx, domain)
	if err != nil {
		s.logger.Error("Failed to review domain", zap.String("domain", domain), zap.Error(err))
		outcome.Status = ReviewStatusFailed
		outcome.Error = err.Error()
		return outcome, nil
	}
	outcome.Status = ReviewStatusReviewed
	outcome.Review = review

	if s.apply && review.IsDisposable && review.Confidence >= s.threshold {
		now := time.Now().UTC()
		if _, err := s.store.Upsert(ctx, &DisposableDomainRecord{
			Domain:    domain,
			Source:    "review:" + review.ModelUsed,
			AddedAt:   now,
			UpdatedAt: now,
		}); err != nil {
			return nil, fmt.Errorf("%w: upsert %s: %w", ErrStoreUnavailable, domain, err)
		}
		outcome.Applied = true
		s.logger.Info("Promoted reviewed domain to disposable list",
			zap.String("domain", domain),
			zap.Float64("confidence", review.Confidence),
			zap.String("model", review.ModelUsed))
	}

	return outcome, nil
}
