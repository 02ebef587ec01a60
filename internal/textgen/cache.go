package textgen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type cached struct {
	next  Service
	cache *gocache.Cache
}

// WithCache memoizes successful non-empty responses by request for ttl.
// Repeating the same search inside the window costs nothing upstream.
func WithCache(next Service, ttl time.Duration) Service {
	if ttl <= 0 {
		return next
	}
	return &cached{next: next, cache: gocache.New(ttl, 2*ttl)}
}

func (c *cached) Generate(ctx context.Context, req Request) (*Response, error) {
	key := cacheKey(req)
	if v, ok := c.cache.Get(key); ok {
		resp := *v.(*Response)
		resp.Citations = append(resp.Citations[:0:0], resp.Citations...)
		resp.Cached = true
		zap.L().Debug("textgen: cache hit", zap.String("key", key[:12]))
		return &resp, nil
	}

	resp, err := c.next.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Text != "" {
		stored := *resp
		c.cache.SetDefault(key, &stored)
	}
	return resp, nil
}

// cacheKey hashes every field that can change the generated text.
func cacheKey(req Request) string {
	b, _ := json.Marshal(req) //nolint:errcheck
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
