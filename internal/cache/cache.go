// Package cache provides the advisory read-through cache that sits in front
// of expensive upstream calls (page listings, category membership, per-title
// lookups). Concurrent misses may fetch twice; fetches are idempotent.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"
)

const maxKeyLength = 200

// Cache stores serialized values with an expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Keyer namespaces cache keys so several deployments can share one backend.
type Keyer struct {
	Prefix string
}

// Key joins namespace and parts into a cache key. Keys longer than the
// backend limit keep prefix and namespace and replace the parts with a
// digest of the full key.
func (k Keyer) Key(namespace string, parts ...string) string {
	segments := make([]string, 0, len(parts)+2)
	if k.Prefix != "" {
		segments = append(segments, k.Prefix)
	}
	segments = append(segments, namespace)
	segments = append(segments, parts...)
	key := strings.ReplaceAll(strings.Join(segments, ":"), " ", "_")
	if len(key) <= maxKeyLength {
		return key
	}
	sum := sha1.Sum([]byte(key))
	digest := namespace + ":" + hex.EncodeToString(sum[:])
	if k.Prefix != "" {
		digest = k.Prefix + ":" + digest
	}
	return digest
}

// Fetch returns the cached value for key, or calls load and stores its result
// for ttl. Cache errors are logged and treated as misses.
func Fetch[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	if c != nil {
		raw, ok, err := c.Get(ctx, key)
		if err != nil {
			slog.Warn("cache get failed", "key", key, "error", err)
		}
		if ok {
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				return v, nil
			}
			slog.Warn("discarding undecodable cache entry", "key", key)
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if c != nil {
		raw, err := json.Marshal(v)
		if err != nil {
			slog.Warn("cache encode failed", "key", key, "error", err)
			return v, nil
		}
		if err := c.Set(ctx, key, raw, ttl); err != nil {
			slog.Warn("cache set failed", "key", key, "error", err)
		}
	}
	return v, nil
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (Noop) Delete(context.Context, string) error { return nil }
