package revocation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultKeyPrefix namespaces revocation keys in a shared database.
const defaultKeyPrefix = "jwt_blacklist:"

// RedisStore keeps revocation entries in Redis. Entries whose token has
// an expiry are written with a matching TTL, so Redis evicts them on
// its own and PurgeExpired has nothing left to do. Entries without an
// expiry are written without a TTL and stay until removed.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore) error

// WithKeyPrefix replaces the default "jwt_blacklist:" key prefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) error {
		if prefix == "" {
			return errors.New("key prefix cannot be empty")
		}
		s.keyPrefix = prefix
		return nil
	}
}

// NewRedisStore builds a store on top of an existing Redis client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	store := &RedisStore{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}

	for _, opt := range opts {
		if err := opt(store); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// Record stores an entry for the token with a TTL matching the token's
// remaining lifetime. Tokens already past their expiry are skipped:
// verification rejects them before the revocation check runs.
func (s *RedisStore) Record(ctx context.Context, rawToken, reason string) error {
	entry := newEntry(rawToken, reason, time.Now())

	value, err := json.Marshal(entry)
	if err != nil {
		return &unavailableError{details: err}
	}

	var ttl time.Duration
	if entry.ExpiresAt != nil {
		ttl = time.Until(*entry.ExpiresAt)
		if ttl <= 0 {
			return nil
		}
	}

	if err := s.client.Set(ctx, s.key(entry.TokenHash), value, ttl).Err(); err != nil {
		return &unavailableError{details: err}
	}

	return nil
}

// IsRevoked reports whether an entry for the token is still present.
func (s *RedisStore) IsRevoked(ctx context.Context, rawToken string) (bool, error) {
	count, err := s.client.Exists(ctx, s.key(HashToken(rawToken))).Result()
	if err != nil {
		return false, &unavailableError{details: err}
	}

	return count > 0, nil
}

// Remove deletes the entry for the token.
func (s *RedisStore) Remove(ctx context.Context, rawToken string) (bool, error) {
	deleted, err := s.client.Del(ctx, s.key(HashToken(rawToken))).Result()
	if err != nil {
		return false, &unavailableError{details: err}
	}

	return deleted > 0, nil
}

// PurgeExpired reports zero: expired entries are evicted by Redis
// through their TTL.
func (s *RedisStore) PurgeExpired(context.Context) (int64, error) {
	return 0, nil
}

// Stats counts the keys under the store's prefix. Redis has already
// dropped expired entries, so everything counted is active.
func (s *RedisStore) Stats(ctx context.Context) (Stats, error) {
	var total int64
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.keyPrefix+"*", 100).Result()
		if err != nil {
			return Stats{}, &unavailableError{details: err}
		}
		total += int64(len(keys))

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return Stats{Total: total, Active: total}, nil
}

func (s *RedisStore) key(tokenHash string) string {
	return s.keyPrefix + tokenHash
}
