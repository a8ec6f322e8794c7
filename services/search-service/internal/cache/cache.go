package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/travel-marketplace/services/search-service/internal/vector"
)

const ttl = 24 * time.Hour

// CachedEmbedder memoizes embeddings in Redis keyed by provider and
// text hash. Cache failures are logged and fall through to the inner
// embedder; they never fail a search.
type CachedEmbedder struct {
	inner    vector.Embedder
	rdb      *redis.Client
	provider string
}

// Wrap returns the inner embedder untouched when rdb is nil, so the
// cache is strictly optional.
func Wrap(inner vector.Embedder, rdb *redis.Client, provider string) vector.Embedder {
	if rdb == nil {
		return inner
	}
	return &CachedEmbedder{inner: inner, rdb: rdb, provider: provider}
}

func (c *CachedEmbedder) Dimension() int { return c.inner.Dimension() }

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.key(text)
	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var vec []float32
		if json.Unmarshal(raw, &vec) == nil && len(vec) == c.inner.Dimension() {
			return vec, nil
		}
	}
	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(vec); err == nil {
		if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
			log.Printf("[search] embedding cache set failed: %v", err)
		}
	}
	return vec, nil
}

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emb:" + c.provider + ":" + hex.EncodeToString(sum[:16])
}
