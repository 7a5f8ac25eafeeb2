package core

import "sync"

// Pools for Request and Context mirror bolt's context pooling idiom
// (core/context_pool.go): the session loop acquires one of each per request
// and returns them before the next iteration. Responses are not pooled; the
// session loop builds a fresh one per request with NewResponse.
var (
	requestPool = sync.Pool{New: func() any { return new(Request) }}
	contextPool = sync.Pool{New: func() any { return new(Context) }}
)

// AcquireRequest returns a zeroed *Request from the pool.
func AcquireRequest() *Request {
	return requestPool.Get().(*Request)
}

// ReleaseRequest resets and returns a *Request to the pool.
func ReleaseRequest(r *Request) {
	r.Reset()
	requestPool.Put(r)
}

// AcquireContext returns a *Context wired to req/res, from the pool.
func AcquireContext(req *Request, res *Response) *Context {
	c := contextPool.Get().(*Context)
	c.Request = req
	c.Response = res
	return c
}

// ReleaseContext resets and returns a *Context to the pool. It does not
// touch Request/Response — the session loop owns their lifecycle
// separately (the Request goes back to its own pool; the Response is not
// pooled).
func ReleaseContext(c *Context) {
	c.Reset()
	contextPool.Put(c)
}
