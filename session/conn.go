package session

import (
	"bufio"
	"io"
	"log"
	"net"
	"runtime/debug"
	"time"

	"github.com/yourusername/levin/core"
	"github.com/yourusername/levin/router"
	"github.com/yourusername/levin/wire"
)

// Conn drives one accepted connection's request loop. Grounded on
// shockwave/pkg/shockwave/http11/connection.go's Connection.Serve, with two
// deliberate divergences spec.md requires: the keep-alive deadline is set
// once for the connection's whole lifetime rather than refreshed every
// iteration, and panic recovery lives here rather than being left to
// handler authors.
type Conn struct {
	nc net.Conn
	br *bufio.Reader
	bw *bufio.Writer
	rd *reader

	router       *router.Router
	errorHandler core.ErrorHandler
	maxRequests  int

	requests int
}

// NewConn wraps an accepted net.Conn for serving.
func NewConn(nc net.Conn, rt *router.Router, cfg core.Config) *Conn {
	rd := newReader(bufio.NewReaderSize(nc, PageSize))
	if cfg.ReadBufferSize > 0 {
		rd.buf = make([]byte, cfg.ReadBufferSize)
	}
	return &Conn{
		nc:           nc,
		br:           bufio.NewReaderSize(nc, PageSize),
		bw:           bufio.NewWriterSize(nc, PageSize),
		rd:           rd,
		router:       rt,
		errorHandler: cfg.ErrorHandler,
		maxRequests:  cfg.MaxRequestsPerConnection,
	}
}

// Hijack implements core.Hijacker, handing the raw connection to a
// handler (the WebSocket upgrade path) and relinquishing ownership: Serve
// will not write to or close nc again once this returns without error.
func (c *Conn) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return c.nc, bufio.NewReadWriter(c.br, c.bw), nil
}

// Serve runs the accept→read→dispatch→write loop (spec.md §4.5) until the
// connection closes, the keep-alive deadline elapses, or a handler
// hijacks the connection.
func (c *Conn) Serve(keepAlive time.Duration) {
	hijacked := false
	defer func() {
		if !hijacked {
			c.nc.Close()
		}
	}()

	if keepAlive > 0 {
		// Set once for the whole connection, not refreshed per request —
		// shockwave's setDeadline() is called every loop iteration instead;
		// spec.md §4.5 pins the bound to the connection's entire idle-wait
		// lifetime, so a slow client can't extend it indefinitely by
		// trickling requests in just under the wire. See DESIGN.md.
		c.nc.SetDeadline(time.Now().Add(keepAlive))
	}

	for {
		req := core.AcquireRequest()
		req.RemoteAddr = c.nc.RemoteAddr().String()

		err := c.rd.readRequest(req)
		if err != nil {
			core.ReleaseRequest(req)
			if err == io.EOF {
				return
			}
			c.writeParseError(err)
			return
		}

		c.requests++
		res := core.NewResponse(200)
		ctx := core.AcquireContext(req, res)
		ctx.SetHijacker(c)

		c.handleOne(ctx)

		if ctx.Hijacked() {
			hijacked = true
			core.ReleaseRequest(req)
			return
		}

		wireErr := writeResponse(c.bw, res)
		if emit := res.SSE(); wireErr == nil && res.IsSSE() && emit != nil {
			emit(func(frame []byte) bool {
				wireErr = writeSSEFrame(c.bw, frame)
				return wireErr == nil
			})
		}
		flushErr := c.bw.Flush()

		// an SSE stream has no Content-Length, so its end is marked by closing
		shouldClose := wireErr != nil || flushErr != nil || res.IsSSE() || c.shouldClose(req, res)

		core.ReleaseContext(ctx)
		core.ReleaseRequest(req)

		if shouldClose {
			return
		}
	}
}

// handleOne dispatches, runs the fang chain, and converts any panic into a
// 500 — the session-layer boundary spec.md §4.5 step 3 and §7 require,
// rather than shockwave's "handlers must recover() themselves" contract.
func (c *Conn) handleOne(ctx *core.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("levin: panic recovered: %v\n%s", rec, debug.Stack())
			*ctx.Response = *errorResponse(c.errorHandler, ctx, panicError{rec})
			ctx.Response.Complete(wire.Now())
		}
	}()

	h, front, back, found := c.router.Dispatch(ctx.Request, ctx.Request.Method)
	if !found {
		*ctx.Response = *errorResponse(c.errorHandler, ctx, core.ErrNotFound)
		ctx.Response.Complete(wire.Now())
		return
	}

	for _, f := range front {
		if ff, ok := f.(router.FrontFang); ok {
			if err := ff.Before(ctx); err != nil {
				*ctx.Response = *errorResponse(c.errorHandler, ctx, err)
				runBack(back, ctx)
				c.finalize(ctx)
				return
			}
		}
	}

	if h != nil {
		h(ctx)
	} else if ctx.Request.Method == core.OPTIONS {
		ctx.NoContent()
	}

	runBack(back, ctx)
	c.finalize(ctx)
}

func runBack(back []router.Fang, ctx *core.Context) {
	for _, f := range back {
		if bf, ok := f.(router.BackFang); ok {
			bf.After(ctx)
		}
	}
}

// finalize applies HEAD's pinned semantics and stamps Date/Content-Length,
// right before the caller serializes the response.
func (c *Conn) finalize(ctx *core.Context) {
	if ctx.Request.Method == core.HEAD {
		forceHeadSemantics(ctx.Response)
	}
	ctx.Response.Complete(wire.Now())
}

// forceHeadSemantics keeps the GET response's headers but clears the body
// and forces 204 — the pinned resolution to spec.md's HEAD Open Question.
func forceHeadSemantics(res *core.Response) {
	res.Status = 204
	res.ClearBodyKeepHeaders()
}

type panicError struct{ v any }

func (p panicError) Error() string { return "panic" }

func errorResponse(h core.ErrorHandler, ctx *core.Context, err error) *core.Response {
	res := h(ctx, err)
	return &res
}

// shouldClose mirrors shockwave's shouldCloseAfterRequest: explicit
// Connection: close on either side, HTTP/1.0 without keep-alive, or the
// per-connection request cap.
func (c *Conn) shouldClose(req *core.Request, res *core.Response) bool {
	if c.maxRequests > 0 && c.requests >= c.maxRequests {
		return true
	}
	if v, ok := req.Header.Get(core.ReqConnection); ok && equalFold(v, "close") {
		return true
	}
	if v, ok := res.Header.Get(core.ResConnection); ok && equalFold(v, "close") {
		return true
	}
	if req.Proto == "HTTP/1.0" {
		v, ok := req.Header.Get(core.ReqConnection)
		if !ok || !equalFold(v, "keep-alive") {
			return true
		}
	}
	return false
}

func (c *Conn) writeParseError(err error) {
	status := 400
	switch err {
	case ErrRequestTooLarge, ErrPayloadTooLarge:
		status = 413
	case ErrUnsupportedVersion:
		status = 505
	case ErrMethodNotImplemented:
		status = 501
	}
	res := core.NewResponse(status).SetText(err.Error())
	res.Complete(wire.Now())
	writeResponse(c.bw, res)
	c.bw.Flush()
}
