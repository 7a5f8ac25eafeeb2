package levin

import (
	"testing"

	"github.com/yourusername/levin/binding"
	"github.com/yourusername/levin/core"
)

func TestAppRegistersAndDispatches(t *testing.T) {
	app := New()
	app.Get("/ping", binding.P0(func(c *core.Context) core.Response {
		res := *core.NewResponse(200)
		res.SetText("pong")
		return res
	}))
	app.Router().Build()

	req := core.AcquireRequest()
	req.Method = core.GET
	req.SetRawPath([]byte("/ping"))

	h, _, _, ok := app.Router().Dispatch(req, core.GET)
	if !ok {
		t.Fatal("expected /ping to be registered")
	}
	c := &core.Context{Request: req, Response: core.NewResponse(200)}
	h(c)
	if string(c.Response.Body()) != "pong" {
		t.Fatalf("body = %q, want pong", c.Response.Body())
	}
}

func TestMountGraftsSubAppUnderPrefix(t *testing.T) {
	app := New()
	sub := New()
	sub.Get("/users", binding.P0(func(c *core.Context) core.Response {
		res := *core.NewResponse(200)
		res.SetText("users")
		return res
	}))
	app.Mount("/api", sub)
	app.Router().Build()

	req := core.AcquireRequest()
	req.Method = core.GET
	req.SetRawPath([]byte("/api/users"))

	_, _, _, ok := app.Router().Dispatch(req, core.GET)
	if !ok {
		t.Fatal("expected mounted sub-app route to be reachable under its prefix")
	}
}
