package textgen

import (
	"context"
	"time"
)

// Observer receives the outcome of every generation call.
type Observer interface {
	ObserveGeneration(provider string, elapsed time.Duration, cached bool, err error)
}

type observed struct {
	next     Service
	obs      Observer
	provider string
}

// WithObserver reports latency and outcome of next to obs.
func WithObserver(next Service, obs Observer, provider string) Service {
	if obs == nil {
		return next
	}
	return &observed{next: next, obs: obs, provider: provider}
}

func (o *observed) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := o.next.Generate(ctx, req)
	cached := resp != nil && resp.Cached
	o.obs.ObserveGeneration(o.provider, time.Since(start), cached, err)
	return resp, err
}
