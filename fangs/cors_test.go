package fangs

import (
	"testing"

	"github.com/yourusername/levin/core"
	"github.com/yourusername/levin/router"
)

func newCtx() *core.Context {
	return &core.Context{Request: core.AcquireRequest(), Response: core.NewResponse(200)}
}

func TestCORSAllowsWildcardOrigin(t *testing.T) {
	f := CORS(DefaultCORSConfig())
	c := newCtx()
	c.Request.Header.Set([]byte("Origin"), []byte("https://example.com"))

	before, ok := f.(router.FrontFang)
	if !ok {
		t.Fatal("CORS fang must implement FrontFang")
	}
	if err := before.Before(c); err != nil {
		t.Fatalf("Before returned error: %v", err)
	}

	allow, ok := c.Response.Header.Get(core.ResAccessControlAllowOrigin)
	if !ok || allow != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, %v, want *", allow, ok)
	}
}

func TestCORSRejectsUnlistedOrigin(t *testing.T) {
	f := CORS(CORSConfig{AllowOrigins: []string{"https://allowed.example"}})
	c := newCtx()
	c.Request.Header.Set([]byte("Origin"), []byte("https://evil.example"))

	before := f.(router.FrontFang)
	if err := before.Before(c); err != nil {
		t.Fatalf("Before returned error: %v", err)
	}
	if c.Response.Header.Has(core.ResAccessControlAllowOrigin) {
		t.Fatal("expected no CORS header for a disallowed origin")
	}
}

func TestCORSPreflightSetsMethodHeaders(t *testing.T) {
	f := CORS(DefaultCORSConfig())
	c := newCtx()
	c.Request.Method = core.OPTIONS
	c.Request.Header.Set([]byte("Origin"), []byte("https://example.com"))

	before := f.(router.FrontFang)
	if err := before.Before(c); err != nil {
		t.Fatalf("Before returned error: %v", err)
	}
	if !c.Response.Header.Has(core.ResAccessControlAllowMethods) {
		t.Fatal("expected Allow-Methods on an OPTIONS preflight")
	}
}
