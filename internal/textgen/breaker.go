package textgen

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned while the provider is considered down.
var ErrCircuitOpen = eris.New("textgen: circuit breaker is open")

// breakerState is the circuit position.
type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case breakerClosed:
		return "closed"
	case breakerOpen:
		return "open"
	case breakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerPolicy configures WithBreaker.
type BreakerPolicy struct {
	// FailureThreshold consecutive transient failures open the circuit.
	FailureThreshold int
	// Cooldown is how long the circuit stays open before a probe.
	Cooldown time.Duration
}

type breaker struct {
	next   Service
	policy BreakerPolicy
	name   string
	now    func() time.Time

	mu       sync.Mutex
	state    breakerState
	failures int
	openedAt time.Time
}

// WithBreaker stops calling next after repeated transient failures and
// lets one probe through once the cooldown has passed. Non-transient
// errors (bad request, auth) do not count.
func WithBreaker(next Service, policy BreakerPolicy, name string) Service {
	if policy.FailureThreshold <= 0 {
		policy.FailureThreshold = 5
	}
	if policy.Cooldown <= 0 {
		policy.Cooldown = 30 * time.Second
	}
	return &breaker{next: next, policy: policy, name: name, now: time.Now}
}

func (b *breaker) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := b.allow(); err != nil {
		return nil, err
	}
	resp, err := b.next.Generate(ctx, req)
	b.record(err)
	return resp, err
}

func (b *breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != breakerOpen {
		return nil
	}
	if b.now().Sub(b.openedAt) >= b.policy.Cooldown {
		b.moveTo(breakerHalfOpen)
		return nil
	}
	return ErrCircuitOpen
}

func (b *breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil || !IsTransient(err) {
		b.failures = 0
		if b.state == breakerHalfOpen {
			b.moveTo(breakerClosed)
		}
		return
	}

	b.failures++
	switch b.state {
	case breakerHalfOpen:
		b.openedAt = b.now()
		b.moveTo(breakerOpen)
	case breakerClosed:
		if b.failures >= b.policy.FailureThreshold {
			b.openedAt = b.now()
			b.moveTo(breakerOpen)
		}
	}
}

func (b *breaker) moveTo(to breakerState) {
	if b.state == to {
		return
	}
	zap.L().Warn("textgen: circuit state change",
		zap.String("provider", b.name),
		zap.String("from", b.state.String()),
		zap.String("to", to.String()),
	)
	b.state = to
}
