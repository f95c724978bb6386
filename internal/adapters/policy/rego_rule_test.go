package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPolicy = `
package domains

default suspicious := false

suspicious if {
	input.tld == "xyz"
}

suspicious if {
	count(input.labels) > 4
}
`

func TestRegoRule_Match(t *testing.T) {
	rule, err := NewRegoRule(context.Background(), testPolicy, "", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "policy", rule.Name())

	testCases := []struct {
		domain   string
		expected bool
	}{
		{"example.xyz", true},
		{"a.b.c.d.example.com", true},
		{"gmail.com", false},
		{"mail.example.org", false},
	}

	for _, tc := range testCases {
		t.Run(tc.domain, func(t *testing.T) {
			assert.Equal(t, tc.expected, rule.Match(tc.domain))
		})
	}
}

func TestRegoRule_NonBooleanResultDoesNotMatch(t *testing.T) {
	policy := `
package domains

suspicious := "yes"
`
	rule, err := NewRegoRule(context.Background(), policy, "", zap.NewNop())
	require.NoError(t, err)
	assert.False(t, rule.Match("example.com"))
}

func TestRegoRule_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.rego")
	require.NoError(t, os.WriteFile(path, []byte(testPolicy), 0o644))

	rule, err := NewRegoRuleFromFile(context.Background(), path, "data.domains.suspicious", zap.NewNop())
	require.NoError(t, err)
	assert.True(t, rule.Match("example.xyz"))

	_, err = NewRegoRuleFromFile(context.Background(), filepath.Join(t.TempDir(), "missing.rego"), "", zap.NewNop())
	assert.Error(t, err)
}

func TestNewRegoRule_InvalidPolicy(t *testing.T) {
	_, err := NewRegoRule(context.Background(), "package broken\nsuspicious if {", "", zap.NewNop())
	assert.Error(t, err)
}
