package textgen

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

type rateLimited struct {
	next    Service
	limiter *rate.Limiter
}

// WithRateLimit blocks each call until the limiter admits it. A
// non-positive rps disables limiting.
func WithRateLimit(next Service, rps float64, burst int) Service {
	if rps <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (r *rateLimited) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "textgen: rate limit wait")
	}
	return r.next.Generate(ctx, req)
}
