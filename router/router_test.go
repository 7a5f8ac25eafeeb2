package router

import (
	"testing"

	"github.com/yourusername/levin/core"
)

func dispatch(t *testing.T, rt *Router, method core.Method, path string) (Handler, bool) {
	t.Helper()
	req := core.AcquireRequest()
	req.Method = method
	req.SetRawPath([]byte(path))
	h, _, _, ok := rt.Dispatch(req, method)
	return h, ok
}

func TestStaticBeforeParamOrdering(t *testing.T) {
	rt := New()
	var order []string
	rt.Register(core.GET, "/users/:id", func(c *core.Context) { order = append(order, "param") })
	rt.Register(core.GET, "/users/me", func(c *core.Context) { order = append(order, "static") })
	rt.Build()

	h, ok := dispatch(t, rt, core.GET, "/users/me")
	if !ok {
		t.Fatal("expected match for /users/me")
	}
	c := &core.Context{Request: core.AcquireRequest(), Response: core.NewResponse(200)}
	h(c)
	if len(order) != 1 || order[0] != "static" {
		t.Fatalf("expected static route to win over param route, got %v", order)
	}
}

func TestParamCapture(t *testing.T) {
	rt := New()
	rt.Register(core.GET, "/users/:id", func(c *core.Context) {
		id, ok := c.Param("id")
		if !ok || id != "42" {
			t.Errorf("expected param id=42, got %q ok=%v", id, ok)
		}
	})
	rt.Build()

	req := core.AcquireRequest()
	req.Method = core.GET
	req.SetRawPath([]byte("/users/42"))
	h, _, _, ok := rt.Dispatch(req, core.GET)
	if !ok {
		t.Fatal("expected match")
	}
	c := &core.Context{Request: req, Response: core.NewResponse(200)}
	h(c)
}

func TestHeadReusesGetHandler(t *testing.T) {
	rt := New()
	called := false
	rt.Register(core.GET, "/ping", func(c *core.Context) { called = true })
	rt.Build()

	req := core.AcquireRequest()
	req.SetRawPath([]byte("/ping"))
	h, _, _, ok := rt.Dispatch(req, core.HEAD)
	if !ok {
		t.Fatal("expected HEAD to reuse GET's route")
	}
	h(&core.Context{Request: req, Response: core.NewResponse(200)})
	if !called {
		t.Fatal("expected GET handler to run for HEAD")
	}
}

func TestOptionsWithoutHandlerDefaultsFound(t *testing.T) {
	rt := New()
	rt.Register(core.GET, "/ping", func(c *core.Context) {})
	rt.Build()

	req := core.AcquireRequest()
	req.SetRawPath([]byte("/ping"))
	h, _, _, ok := rt.Dispatch(req, core.OPTIONS)
	if !ok {
		t.Fatal("expected OPTIONS to match an existing path with no handler")
	}
	if h != nil {
		t.Fatal("expected nil handler for OPTIONS default")
	}
}

func TestRegisterPanicsOnDuplicateRoute(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	rt := New()
	rt.Register(core.GET, "/ping", func(c *core.Context) {})
	rt.Register(core.GET, "/ping", func(c *core.Context) {})
}

func TestRegisterPanicsOnTooManyParams(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for route exceeding the param limit")
		}
	}()
	rt := New()
	rt.Register(core.GET, "/a/:p1/:p2/:p3/:p4/:p5/:p6/:p7/:p8/:p9", func(c *core.Context) {})
}

func TestNotFound(t *testing.T) {
	rt := New()
	rt.Register(core.GET, "/ping", func(c *core.Context) {})
	rt.Build()

	req := core.AcquireRequest()
	req.SetRawPath([]byte("/missing"))
	_, _, _, ok := rt.Dispatch(req, core.GET)
	if ok {
		t.Fatal("expected no match for unregistered path")
	}
}
