package store

import (
	"context"
	"fmt"
	"time"

	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore is a Redis implementation of the DomainStore interface.
// Domains live in a set; per-domain metadata lives in a hash.
type RedisStore struct {
	client    redis.UniversalClient
	logger    *zap.Logger
	setKey    string
	metaKeyFn func(domain string) string
}

// NewRedisStore creates a new Redis store and checks the connection
func NewRedisStore(ctx context.Context, client redis.UniversalClient, keyPrefix string, logger *zap.Logger) (*RedisStore, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if keyPrefix == "" {
		keyPrefix = "disposable"
	}

	return &RedisStore{
		client: client,
		logger: logger,
		setKey: keyPrefix + ":domains",
		metaKeyFn: func(domain string) string {
			return keyPrefix + ":domain:" + domain
		},
	}, nil
}

// Contains reports whether the domain is stored
func (s *RedisStore) Contains(ctx context.Context, domain string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, s.setKey, domain).Result()
	if err != nil {
		return false, fmt.Errorf("failed to query domain: %w", err)
	}
	return ok, nil
}

// Upsert adds the domain to the set and writes its metadata in one MULTI block
func (s *RedisStore) Upsert(ctx context.Context, record *core.DisposableDomainRecord) (bool, error) {
	var added *redis.IntCmd
	metaKey := s.metaKeyFn(record.Domain)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		added = pipe.SAdd(ctx, s.setKey, record.Domain)
		pipe.HSetNX(ctx, metaKey, "source", record.Source)
		pipe.HSetNX(ctx, metaKey, "added_at", record.AddedAt.Format(time.RFC3339))
		pipe.HSet(ctx, metaKey, "updated_at", record.UpdatedAt.Format(time.RFC3339))
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to upsert domain: %w", err)
	}

	return added.Val() == 1, nil
}

// Count returns the number of stored domains
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, s.setKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count domains: %w", err)
	}
	return int(n), nil
}

// Record reads the stored metadata for a domain
func (s *RedisStore) Record(ctx context.Context, domain string) (*core.DisposableDomainRecord, error) {
	fields, err := s.client.HGetAll(ctx, s.metaKeyFn(domain)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read domain metadata: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	record := &core.DisposableDomainRecord{
		Domain: domain,
		Source: fields["source"],
	}
	if record.AddedAt, err = time.Parse(time.RFC3339, fields["added_at"]); err != nil {
		return nil, fmt.Errorf("failed to parse added_at timestamp: %w", err)
	}
	if record.UpdatedAt, err = time.Parse(time.RFC3339, fields["updated_at"]); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
	}
	return record, nil
}

// Stop closes the Redis client
func (s *RedisStore) Stop() {
	if err := s.client.Close(); err != nil {
		s.logger.Error("Failed to close Redis client", zap.Error(err))
	}
}
