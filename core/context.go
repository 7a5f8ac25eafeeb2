package core

import (
	"bufio"
	"errors"
	"net"
)

// Hijacker lets a handler take over the raw connection, bypassing the
// session loop's own response writing — the only sanctioned escape hatch,
// used by the WebSocket upgrade handoff (spec.md §6). Implemented by
// session.Conn.
type Hijacker interface {
	Hijack() (net.Conn, *bufio.ReadWriter, error)
}

// Context is the per-request facade handlers and fangs operate on: the
// parsed Request, the in-progress Response, and a request-scoped memo
// store for passing values from an upstream fang to a downstream extractor
// or handler. It is pooled exactly like bolt/core/context.go's Context,
// but wraps Levin's own Request/Response rather than an adapter over two
// alternate HTTP stacks.
type Context struct {
	Request  *Request
	Response *Response

	query    Query
	queryset bool

	hijacker Hijacker
	hijacked bool
}

// SetHijacker wires the connection-level hijack hook; called by the
// session loop before invoking a handler.
func (c *Context) SetHijacker(h Hijacker) { c.hijacker = h }

// Hijack takes over the underlying connection for protocols the session
// loop doesn't speak itself, such as a WebSocket upgrade. After a
// successful Hijack, the session loop writes nothing more on this
// connection and does not close it — ownership has passed to the caller.
func (c *Context) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if c.hijacker == nil {
		return nil, nil, errors.New("levin: connection does not support hijacking")
	}
	nc, rw, err := c.hijacker.Hijack()
	if err == nil {
		c.hijacked = true
	}
	return nc, rw, err
}

// Hijacked reports whether Hijack succeeded on this request.
func (c *Context) Hijacked() bool { return c.hijacked }

// Query returns the lazily-parsed query-string view for this request.
func (c *Context) Query() *Query {
	if !c.queryset {
		c.query = newQuery(c.Request.RawQuery())
		c.queryset = true
	}
	return &c.query
}

// Param returns a captured path parameter by name.
func (c *Context) Param(name string) (string, bool) {
	return c.Request.Param(name)
}

// Set stores a value in the request-scoped memo store, for a downstream
// fang, extractor, or handler to read with Get/MustGet.
func (c *Context) Set(key string, value any) {
	c.Request.Memo(key, value)
}

// Get retrieves a value from the memo store, or nil if absent.
func (c *Context) Get(key string) any {
	v, _ := c.Request.MemoGet(key)
	return v
}

// MustGet retrieves a value from the memo store, panicking if absent —
// the session loop's panic boundary converts that into a 500, so this is
// meant for invariants a fang upstream of this handler is supposed to
// guarantee, not for optional lookups.
func (c *Context) MustGet(key string) any {
	v, ok := c.Request.MemoGet(key)
	if !ok {
		panic("levin: memo key not found: " + key)
	}
	return v
}

// JSON sets the response body to the JSON encoding of v and returns any
// marshal error (so handlers can early-return c.JSON(...) from a function
// that also returns error).
func (c *Context) JSON(status int, v any) error {
	c.Response.Status = status
	return c.Response.SetJSON(v)
}

// Text sets a text/plain response body.
func (c *Context) Text(status int, s string) {
	c.Response.Status = status
	c.Response.SetText(s)
}

// HTML sets a text/html response body.
func (c *Context) HTML(status int, s string) {
	c.Response.Status = status
	c.Response.SetHTML(s)
}

// NoContent sets a 204 response with no body.
func (c *Context) NoContent() {
	c.Response.Status = 204
	c.Response.ClearBodyKeepHeaders()
}

// Reset clears the Context for pooled reuse. It does not reset
// Request/Response; the session loop releases the Request to its own pool
// independently, and the Response is not pooled.
func (c *Context) Reset() {
	c.Request = nil
	c.Response = nil
	c.query = Query{}
	c.queryset = false
	c.hijacker = nil
	c.hijacked = false
}
