package factory

import (
	"context"
	"fmt"

	"github.com/mikey/email-domain-verifier/internal/adapters/policy"
	"github.com/mikey/email-domain-verifier/internal/config"
	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/mikey/email-domain-verifier/internal/whitelist"
	"go.uber.org/zap"
)

// HeuristicsFactory builds the suspicion rule set from configuration
type HeuristicsFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewHeuristicsFactory creates a new heuristics factory
func NewHeuristicsFactory(cfg *config.Config, logger *zap.Logger) *HeuristicsFactory {
	return &HeuristicsFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateHeuristics builds the configured rules, in evaluation order
func (f *HeuristicsFactory) CreateHeuristics(ctx context.Context) (*core.Heuristics, error) {
	hCfg := f.cfg.GetHeuristics()

	var rules []core.Rule
	if hCfg.NumericLabels {
		rules = append(rules, core.NumericLabelRule{})
	}
	if len(hCfg.Patterns) > 0 {
		rules = append(rules, core.NewPatternRule(hCfg.Patterns))
	}
	if hCfg.MinTLDLength > 0 {
		rules = append(rules, core.TLDRule{MinLength: hCfg.MinTLDLength})
	}
	if hCfg.PolicyFile != "" {
		rule, err := policy.NewRegoRuleFromFile(ctx, hCfg.PolicyFile, hCfg.PolicyQuery, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load heuristics policy: %w", err)
		}
		rules = append(rules, rule)
	}

	trusted := whitelist.NewChecker(hCfg.TrustedDomains, f.logger)

	h := core.NewHeuristics(rules, trusted, f.logger)
	f.logger.Info("Configured suspicion heuristics",
		zap.Strings("rules", h.Rules()),
		zap.Int("trusted_domains", trusted.Len()))
	return h, nil
}
