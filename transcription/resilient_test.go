package transcription

import (
	"context"
	"testing"
	"time"

	"github.com/skillsenselab/scribekit/errors"
	"github.com/skillsenselab/scribekit/resilience"
)

func TestWithResilience_EmptyConfigReturnsProvider(t *testing.T) {
	inner := &fakeProvider{name: "fake"}
	if got := WithResilience(inner, ResilienceConfig{}); got != Provider(inner) {
		t.Error("empty config must return the provider unchanged")
	}
}

func TestResilient_OpenBreakerReportsUnavailable(t *testing.T) {
	inner := &fakeProvider{
		name:      "fake",
		available: true,
		err:       errors.ServiceUnavailable("fake"),
	}
	p := WithResilience(inner, ResilienceConfig{
		CircuitBreaker: &resilience.CircuitBreakerConfig{
			Name:        "fake",
			MaxFailures: 2,
			Timeout:     time.Minute,
		},
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := p.Transcribe(ctx, Request{}); err == nil {
			t.Fatal("expected failure")
		}
	}

	if p.IsAvailable(ctx) {
		t.Error("open breaker must report unavailable")
	}

	// Calls now fail fast without reaching the backend.
	before := inner.calls
	_, err := p.Transcribe(ctx, Request{})
	if err == nil {
		t.Fatal("expected fail-fast error")
	}
	if errors.CodeOf(err) != errors.ErrCodeServiceUnavailable {
		t.Errorf("expected SERVICE_UNAVAILABLE, got %s", errors.CodeOf(err))
	}
	if !errors.IsRetryable(err) {
		t.Error("circuit-open failures must stay retryable")
	}
	if inner.calls != before {
		t.Error("open breaker must not forward calls to the backend")
	}
}

func TestResilient_SuccessPassesThrough(t *testing.T) {
	inner := &fakeProvider{
		name:      "fake",
		available: true,
		resp:      &Response{Text: "hello"},
	}
	p := WithResilience(inner, ResilienceConfig{
		RateLimiter: &resilience.RateLimiterConfig{Name: "fake", Rate: 100, Burst: 10},
		CallTimeout: time.Second,
	})

	resp, err := p.Transcribe(context.Background(), Request{AudioData: []byte("x")})
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if resp.Text != "hello" {
		t.Errorf("unexpected text %q", resp.Text)
	}
	if !p.IsAvailable(context.Background()) {
		t.Error("healthy provider must be available")
	}
	if p.Name() != "fake" {
		t.Errorf("wrapper must delegate Name, got %q", p.Name())
	}
}

func TestResilient_CallTimeout(t *testing.T) {
	inner := &slowProvider{delay: 200 * time.Millisecond}
	p := WithResilience(inner, ResilienceConfig{CallTimeout: 20 * time.Millisecond})

	_, err := p.Transcribe(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if errors.CodeOf(err) != errors.ErrCodeServiceUnavailable {
		t.Errorf("expected SERVICE_UNAVAILABLE, got %s", errors.CodeOf(err))
	}
}

type slowProvider struct {
	delay time.Duration
}

func (s *slowProvider) Name() string                       { return "slow" }
func (s *slowProvider) IsAvailable(_ context.Context) bool { return true }

func (s *slowProvider) Transcribe(ctx context.Context, _ Request) (*Response, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.delay):
		return &Response{Text: "late"}, nil
	}
}
