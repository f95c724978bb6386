package factory

import (
	"context"
	"fmt"

	"github.com/mikey/email-domain-verifier/internal/adapters/bedrock"
	"github.com/mikey/email-domain-verifier/internal/adapters/gemini"
	"github.com/mikey/email-domain-verifier/internal/adapters/openai"
	"github.com/mikey/email-domain-verifier/internal/config"
	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/mikey/email-domain-verifier/internal/utils"
	"go.uber.org/zap"
)

// ReviewerFactory creates model-backed domain reviewers
type ReviewerFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewReviewerFactory creates a new reviewer factory
func NewReviewerFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ReviewerFactory {
	return &ReviewerFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateReviewer creates the configured reviewer. It returns nil without an
// error when review.provider is "none" or empty.
func (f *ReviewerFactory) CreateReviewer(ctx context.Context) (core.DomainReviewer, error) {
	provider := f.cfg.GetReview().Provider

	switch provider {
	case "", "none":
		return nil, nil
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateReviewer(ctx)
	case "gemini":
		reviewer, err := gemini.NewFactory(f.cfg, f.logger, f.textProcessor).CreateReviewer(ctx)
		if err != nil {
			return nil, err
		}
		return reviewer, nil
	case "openai":
		return openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateReviewer()
	default:
		return nil, fmt.Errorf("unsupported review provider: %s", provider)
	}
}
