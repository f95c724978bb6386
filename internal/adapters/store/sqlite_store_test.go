package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSQLiteStore_UpsertContainsCount(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "domains.db"), zap.NewNop())
	require.NoError(t, err)
	defer s.Stop()

	now := time.Now().UTC()
	inserted, err := s.Upsert(ctx, record("10minutemail.com", now))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.Upsert(ctx, record("10minutemail.com", now.Add(time.Minute)))
	require.NoError(t, err)
	assert.False(t, inserted)

	ok, err := s.Contains(ctx, "10minutemail.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Contains(ctx, "yahoo.com")
	require.NoError(t, err)
	assert.False(t, ok)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "domains.db")

	s, err := NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)
	_, err = s.Upsert(ctx, record("tempmail.org", time.Now()))
	require.NoError(t, err)
	s.Stop()

	reopened, err := NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Stop()

	ok, err := reopened.Contains(ctx, "tempmail.org")
	require.NoError(t, err)
	assert.True(t, ok)
}
