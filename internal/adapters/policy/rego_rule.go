// Package policy evaluates operator supplied Rego policies as suspicion rules
package policy

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
	"go.uber.org/zap"
)

// DefaultQuery is evaluated when no query is configured
const DefaultQuery = "data.domains.suspicious"

// RegoRule is a core.Rule backed by a prepared Rego query.
// The query must evaluate to a boolean for the input
// {"domain": "...", "labels": [...], "tld": "..."}.
type RegoRule struct {
	query  rego.PreparedEvalQuery
	logger *zap.Logger
}

// NewRegoRule compiles the policy once for later evaluation
func NewRegoRule(ctx context.Context, policy, query string, logger *zap.Logger) (*RegoRule, error) {
	if query == "" {
		query = DefaultQuery
	}

	r := rego.New(
		rego.Query(query),
		rego.Module("policy.rego", policy),
		rego.SetRegoVersion(ast.RegoV1),
	)

	pq, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare policy: %w", err)
	}

	return &RegoRule{query: pq, logger: logger}, nil
}

// NewRegoRuleFromFile reads and compiles a policy file
func NewRegoRuleFromFile(ctx context.Context, path, query string, logger *zap.Logger) (*RegoRule, error) {
	p, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return NewRegoRule(ctx, string(p), query, logger)
}

// Name returns the rule name
func (r *RegoRule) Name() string { return "policy" }

// Match evaluates the policy. Evaluation errors and non-boolean results count as no match.
func (r *RegoRule) Match(domain string) bool {
	labels := strings.Split(domain, ".")
	input := map[string]any{
		"domain": domain,
		"labels": labels,
		"tld":    labels[len(labels)-1],
	}

	rs, err := r.query.Eval(context.Background(), rego.EvalInput(input))
	if err != nil {
		r.logger.Warn("Failed to evaluate suspicion policy", zap.String("domain", domain), zap.Error(err))
		return false
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false
	}

	matched, ok := rs[0].Expressions[0].Value.(bool)
	return ok && matched
}
