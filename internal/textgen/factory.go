package textgen

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-scout/internal/config"
	"github.com/sells-group/lead-scout/pkg/anthropic"
	"github.com/sells-group/lead-scout/pkg/google"
	"github.com/sells-group/lead-scout/pkg/perplexity"
)

// Provider names accepted by ai.provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderPerplexity = "perplexity"
)

// New builds the configured provider wrapped in the standard middleware
// stack. From the outside in: observer, cache, place grounding, retry,
// rate limit, per-call timeout, circuit breaker.
func New(cfg *config.Config, obs Observer) (Service, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	name := cfg.AI.Provider

	svc := WithBreaker(provider, BreakerPolicy{
		FailureThreshold: cfg.AI.Breaker.FailureThreshold,
		Cooldown:         time.Duration(cfg.AI.Breaker.ResetTimeoutSecs) * time.Second,
	}, name)
	svc = WithTimeout(svc, time.Duration(cfg.AI.TimeoutSecs)*time.Second)
	svc = WithRateLimit(svc, cfg.AI.RateLimit, cfg.AI.RateBurst)
	svc = WithRetry(svc, RetryPolicy{
		MaxAttempts:    cfg.AI.Retry.MaxAttempts,
		InitialBackoff: time.Duration(cfg.AI.Retry.InitialBackoffMs) * time.Millisecond,
		MaxBackoff:     time.Duration(cfg.AI.Retry.MaxBackoffMs) * time.Millisecond,
		Multiplier:     cfg.AI.Retry.Multiplier,
		JitterFraction: cfg.AI.Retry.JitterFraction,
	}, name)

	if cfg.AI.MapGrounding && cfg.Google.PlacesKey != "" {
		svc = WithPlaces(svc, google.NewClient(cfg.Google.PlacesKey, google.WithBaseURL(cfg.Google.BaseURL)))
	}

	svc = WithCache(svc, time.Duration(cfg.AI.CacheTTLMins)*time.Minute)
	svc = WithObserver(svc, obs, name)

	zap.L().Debug("textgen: service ready",
		zap.String("provider", name),
		zap.Bool("map_grounding", cfg.AI.MapGrounding && cfg.Google.PlacesKey != ""),
		zap.Bool("web_grounding", cfg.AI.WebGrounding),
	)
	return svc, nil
}

func newProvider(cfg *config.Config) (Service, error) {
	switch cfg.AI.Provider {
	case ProviderAnthropic:
		if cfg.Anthropic.Key == "" {
			return nil, eris.New("textgen: anthropic key is required")
		}
		// Retries are owned by WithRetry.
		client := anthropic.NewClient(cfg.Anthropic.Key, anthropic.WithMaxRetries(0))
		return NewAnthropic(client, cfg.Anthropic.Model, cfg.AI.MaxTokens), nil
	case ProviderOpenAI:
		return NewOpenAI(cfg.OpenAI.Key, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, cfg.AI.MaxTokens)
	case ProviderPerplexity:
		if cfg.Perplexity.Key == "" {
			return nil, eris.New("textgen: perplexity key is required")
		}
		var opts []perplexity.Option
		if cfg.Perplexity.BaseURL != "" {
			opts = append(opts, perplexity.WithBaseURL(cfg.Perplexity.BaseURL))
		}
		if cfg.Perplexity.Model != "" {
			opts = append(opts, perplexity.WithModel(cfg.Perplexity.Model))
		}
		return NewPerplexity(perplexity.NewClient(cfg.Perplexity.Key, opts...), cfg.Perplexity.Model, cfg.AI.MaxTokens), nil
	default:
		return nil, eris.Errorf("textgen: unknown provider %q", cfg.AI.Provider)
	}
}

type timed struct {
	next    Service
	timeout time.Duration
}

// WithTimeout bounds each call to next. A non-positive timeout disables it.
func WithTimeout(next Service, timeout time.Duration) Service {
	if timeout <= 0 {
		return next
	}
	return &timed{next: next, timeout: timeout}
}

func (t *timed) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Generate(ctx, req)
}
