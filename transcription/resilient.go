package transcription

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/skillsenselab/scribekit/errors"
	"github.com/skillsenselab/scribekit/resilience"
)

// ResilienceConfig configures the resilience wrapper around a provider.
// Nil fields disable the corresponding layer.
type ResilienceConfig struct {
	RateLimiter    *resilience.RateLimiterConfig
	CircuitBreaker *resilience.CircuitBreakerConfig
	// CallTimeout bounds a single Transcribe call. Zero disables it.
	CallTimeout time.Duration
}

// IsEmpty reports whether no resilience layer is configured.
func (c ResilienceConfig) IsEmpty() bool {
	return c.RateLimiter == nil && c.CircuitBreaker == nil && c.CallTimeout == 0
}

// WithResilience wraps a provider with rate limiting, a circuit
// breaker and a per-call timeout. Execution chain:
// RateLimiter.Wait → CircuitBreaker → Transcribe.
//
// Retry is deliberately NOT applied here; the pipeline retries
// per chunk so that each attempt re-enters the rate limiter and the
// breaker sees every failure.
func WithResilience(p Provider, cfg ResilienceConfig) Provider {
	if cfg.IsEmpty() {
		return p
	}
	r := &resilientProvider{inner: p, callTimeout: cfg.CallTimeout}
	if cfg.RateLimiter != nil {
		r.rl = resilience.NewRateLimiter(*cfg.RateLimiter)
	}
	if cfg.CircuitBreaker != nil {
		r.cb = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	return r
}

type resilientProvider struct {
	inner       Provider
	rl          *resilience.RateLimiter
	cb          *resilience.CircuitBreaker
	callTimeout time.Duration
}

var _ Provider = (*resilientProvider)(nil)

func (r *resilientProvider) Name() string { return r.inner.Name() }

// IsAvailable reports false while the circuit breaker is open, so the
// pipeline can fall back to sequential processing without issuing
// calls that would fail fast anyway.
func (r *resilientProvider) IsAvailable(ctx context.Context) bool {
	if r.cb != nil && r.cb.State() == resilience.StateOpen {
		return false
	}
	return r.inner.IsAvailable(ctx)
}

func (r *resilientProvider) Transcribe(ctx context.Context, req Request) (*Response, error) {
	if r.rl != nil {
		if err := r.rl.Wait(ctx); err != nil {
			return nil, wrapResilienceError(err, r.inner.Name())
		}
	}

	if r.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.callTimeout)
		defer cancel()
	}

	call := func() (*Response, error) {
		resp, err := r.inner.Transcribe(ctx, req)
		if err != nil {
			return nil, wrapResilienceError(err, r.inner.Name())
		}
		return resp, nil
	}

	if r.cb == nil {
		return call()
	}

	var resp *Response
	var callErr error
	cbErr := r.cb.Execute(func() error {
		resp, callErr = call()
		return callErr
	})
	if cbErr != nil && callErr == nil {
		return nil, wrapResilienceError(cbErr, r.inner.Name())
	}
	return resp, callErr
}

// wrapResilienceError converts resilience sentinel and context errors
// to AppError so the retry layer classifies them correctly.
func wrapResilienceError(err error, service string) error {
	if err == nil {
		return nil
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}

	switch {
	case stderrors.Is(err, resilience.ErrCircuitOpen):
		return errors.ServiceUnavailable(service).WithCause(err).WithDetail("reason", "circuit open")
	case stderrors.Is(err, resilience.ErrRateLimited):
		return errors.RateLimited(service).WithCause(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.ServiceUnavailable(service).WithCause(err).WithDetail("reason", "call timed out")
	case stderrors.Is(err, context.Canceled):
		return err
	default:
		return err
	}
}
