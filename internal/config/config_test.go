package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	assert.Equal(t, "memory", cfg.GetStore().Type)
	assert.Equal(t, "disposable", cfg.GetStore().Redis.KeyPrefix)
	assert.Equal(t, 30*time.Second, cfg.GetPopulation().HTTPTimeout)
	assert.True(t, cfg.GetPopulation().OnStartup)
	assert.Equal(t, 2, cfg.GetHeuristics().MinTLDLength)
	assert.Equal(t, core.DefaultSuspiciousPatterns, cfg.GetHeuristics().Patterns)
	assert.Equal(t, BulkConfig{Workers: 8, ParallelThreshold: 64}, cfg.GetBulk())
	assert.Equal(t, "none", cfg.GetReview().Provider)
	assert.InDelta(t, 0.8, cfg.GetReview().Threshold, 1e-9)
	assert.Equal(t, "0.0.0.0:8000", cfg.GetHTTP().ListenAddress)
	assert.Equal(t, 1000, cfg.GetHTTP().MaxBulkSize)
	assert.False(t, cfg.GetSMTP().Enabled)
	assert.Equal(t, "X-Domain-Verdict", cfg.GetSMTP().VerdictHeader)
	assert.Equal(t, 10027, cfg.GetSMTP().PostfixPort)
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  type: sqlite
  sqlite_path: /tmp/domains.db
population:
  domains: [tempmail.org, mailinator.com]
  http_timeout: 5s
heuristics:
  trusted_domains: [tempo.io]
server:
  smtp:
    enabled: true
    reject_suspicious: true
`), 0o600))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.GetStore().Type)
	assert.Equal(t, "/tmp/domains.db", cfg.GetStore().SQLitePath)
	assert.Equal(t, []string{"tempmail.org", "mailinator.com"}, cfg.GetPopulation().Domains)
	assert.Equal(t, 5*time.Second, cfg.GetPopulation().HTTPTimeout)
	assert.Equal(t, []string{"tempo.io"}, cfg.GetHeuristics().TrustedDomains)
	assert.True(t, cfg.GetSMTP().Enabled)
	assert.True(t, cfg.GetSMTP().RejectSuspicious)
	assert.True(t, cfg.GetSMTP().RejectDisposable, "unset keys keep their defaults")
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("DOMAIN_VERIFIER_STORE_TYPE", "redis")
	t.Setenv("DOMAIN_VERIFIER_BULK_WORKERS", "2")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.GetStore().Type)
	assert.Equal(t, 2, cfg.GetBulk().Workers)
	assert.Equal(t, "debug", cfg.GetString("logging.level"))
}

func TestNewFromFile_Missing(t *testing.T) {
	_, err := NewFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
