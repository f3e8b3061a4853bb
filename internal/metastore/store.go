// Package metastore persists per-modal private metadata in Redis. Each live
// modal gets one JSON record keyed by its view ID; records expire after a
// TTL as a safety net when a close event never arrives.
package metastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get when no record exists for the view ID.
var ErrNotFound = errors.New("metastore: not found")

const (
	defaultNamespace = "private_metadata"
	defaultTTL       = 7 * 24 * time.Hour
)

// Store reads and writes modal metadata records.
type Store struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// Option customizes a Store.
type Option func(*Store)

// WithTTL overrides the record expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithNamespace overrides the key prefix.
func WithNamespace(ns string) Option {
	return func(s *Store) { s.namespace = ns }
}

// New connects to Redis at redisURL (redis://host:port/db) and verifies the
// connection with a ping.
func New(ctx context.Context, redisURL string, opts ...Option) (*Store, error) {
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("metastore: parse redis url: %w", err)
	}
	s := &Store{
		client:    redis.NewClient(redisOpts),
		namespace: defaultNamespace,
		ttl:       defaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("metastore: ping redis: %w", err)
	}
	return s, nil
}

func (s *Store) key(viewID string) string {
	return s.namespace + ":" + viewID
}

// Save stores metadata for the given view ID, resetting its TTL.
func (s *Store) Save(ctx context.Context, viewID string, metadata interface{}) error {
	buf, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("metastore: marshal metadata for %s: %w", viewID, err)
	}
	if err := s.client.Set(ctx, s.key(viewID), buf, s.ttl).Err(); err != nil {
		return fmt.Errorf("metastore: save %s: %w", viewID, err)
	}
	return nil
}

// Get loads the metadata for the given view ID into out. Returns
// ErrNotFound when no record exists.
func (s *Store) Get(ctx context.Context, viewID string, out interface{}) error {
	buf, err := s.client.Get(ctx, s.key(viewID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("metastore: get %s: %w", viewID, err)
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return fmt.Errorf("metastore: unmarshal metadata for %s: %w", viewID, err)
	}
	return nil
}

// Delete removes the record for the given view ID. Deleting a missing
// record is not an error.
func (s *Store) Delete(ctx context.Context, viewID string) error {
	if err := s.client.Del(ctx, s.key(viewID)).Err(); err != nil {
		return fmt.Errorf("metastore: delete %s: %w", viewID, err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
