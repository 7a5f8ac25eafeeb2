package fangs

import (
	"testing"

	"github.com/yourusername/levin/core"
	"github.com/yourusername/levin/router"
)

func TestRateLimitAllowsWithinBurst(t *testing.T) {
	f := RateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 2})
	before := f.(router.FrontFang)

	c := newCtx()
	c.Request.RemoteAddr = "10.0.0.1:1234"

	if err := before.Before(c); err != nil {
		t.Fatalf("first request should pass, got %v", err)
	}
	if err := before.Before(c); err != nil {
		t.Fatalf("second request within burst should pass, got %v", err)
	}
}

func TestRateLimitRejectsOverBurst(t *testing.T) {
	f := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})
	before := f.(router.FrontFang)

	c := newCtx()
	c.Request.RemoteAddr = "10.0.0.2:1234"

	if err := before.Before(c); err != nil {
		t.Fatalf("first request should pass, got %v", err)
	}
	if err := before.Before(c); err == nil {
		t.Fatal("expected second immediate request to be rate limited")
	}
	if !c.Response.Header.Has(core.ResRetryAfter) {
		t.Fatal("expected Retry-After to be set on a rejected request")
	}
}

func TestRateLimitKeysIndependently(t *testing.T) {
	f := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})
	before := f.(router.FrontFang)

	c1 := newCtx()
	c1.Request.RemoteAddr = "10.0.0.3:1234"
	c2 := newCtx()
	c2.Request.RemoteAddr = "10.0.0.4:5678"

	if err := before.Before(c1); err != nil {
		t.Fatalf("c1 first request should pass, got %v", err)
	}
	if err := before.Before(c2); err != nil {
		t.Fatalf("different key should have its own bucket, got %v", err)
	}
}
