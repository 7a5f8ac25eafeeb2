package core

import (
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/yourusername/levin/pool/buffers"
)

// contentKind discriminates how Response.body should be framed on the
// wire; spec.md scopes streaming to SSE alone.
type contentKind uint8

const (
	contentNone contentKind = iota
	contentBytes
	contentSSE
)

// Response is the handler-built, not-yet-serialized outbound message.
// Complete fills in Content-Length/Date just before the writer
// serializes it; everything else is set by handlers and fangs via the
// Set*/With* methods below.
type Response struct {
	Status int

	Header *ResponseHeaders

	kind contentKind
	body []byte

	// sse, when kind == contentSSE, yields each event's already-framed
	// bytes ("event: ...\ndata: ...\n\n") in order.
	sse func(yield func([]byte) bool)
}

// NewResponse starts a response with the given status and no body.
func NewResponse(status int) *Response {
	return &Response{Status: status, Header: NewResponseHeaders()}
}

// SetText sets a text/plain body.
func (r *Response) SetText(s string) *Response {
	r.Header.Set(ResContentType, "text/plain; charset=utf-8")
	r.kind = contentBytes
	r.body = []byte(s)
	return r
}

// SetHTML sets a text/html body.
func (r *Response) SetHTML(s string) *Response {
	r.Header.Set(ResContentType, "text/html; charset=utf-8")
	r.kind = contentBytes
	r.body = []byte(s)
	return r
}

// SetBytes sets a body with an explicit content type.
func (r *Response) SetBytes(contentType string, b []byte) *Response {
	r.Header.Set(ResContentType, contentType)
	r.kind = contentBytes
	r.body = b
	return r
}

// SetJSON marshals v with goccy/go-json into a pooled buffer and sets it as
// the body, mirroring bolt's JSON/JSONLarge buffer-pool strategy but
// collapsed to a single call — the buffer pool already tiers by size.
func (r *Response) SetJSON(v any) error {
	buf := buffers.AcquireMediumJSONBuffer()
	defer buffers.ReleaseJSONBuffer(buf)

	enc := json.NewEncoder(buf)
	if err := enc.Encode(v); err != nil {
		return err
	}

	body := make([]byte, buf.Len())
	copy(body, buf.Bytes())

	r.Header.Set(ResContentType, "application/json; charset=utf-8")
	r.kind = contentBytes
	r.body = body
	return nil
}

// SetSSE marks the response as a Server-Sent Events stream; the session
// loop writes headers once, then calls emit for each event as it's
// produced. Content-Type and Cache-Control are forced per spec.md §6.
func (r *Response) SetSSE(emit func(yield func([]byte) bool)) *Response {
	r.Header.Set(ResContentType, "text/event-stream")
	r.Header.Set(ResCacheControl, "no-cache, must-revalidate")
	r.Header.Set(ResConnection, "keep-alive")
	r.kind = contentSSE
	r.sse = emit
	return r
}

// IsSSE reports whether this response streams SSE frames.
func (r *Response) IsSSE() bool { return r.kind == contentSSE }

// SSE returns the event emitter for an SSE response.
func (r *Response) SSE() func(yield func([]byte) bool) { return r.sse }

// Body returns the response's fixed body bytes (empty for SSE/none).
func (r *Response) Body() []byte { return r.body }

// WithHeader sets a well-known response header, fluently.
func (r *Response) WithHeader(name ResHeader, value string) *Response {
	r.Header.Set(name, value)
	return r
}

// WithCustomHeader sets a header outside the well-known set, fluently.
func (r *Response) WithCustomHeader(name, value string) *Response {
	r.Header.SetCustom(name, value)
	return r
}

// WithSetCookie appends a Set-Cookie line, fluently.
func (r *Response) WithSetCookie(value string) *Response {
	r.Header.AppendSetCookie(value)
	return r
}

// Complete fills in the headers that depend on the final body and current
// time, exactly once, right before serialization: Content-Length (never
// set for SSE, which has no fixed length, nor for 204 No Content, which
// must carry none at all) and Date (unless a handler already set one
// explicitly). Called by the session loop.
func (r *Response) Complete(dateValue string) {
	if !r.Header.Has(ResDate) {
		r.Header.Set(ResDate, dateValue)
	}
	if r.kind != contentSSE && r.Status != 204 && !r.Header.Has(ResContentLength) {
		r.Header.Set(ResContentLength, strconv.Itoa(len(r.body)))
	}
}

// ClearBodyKeepHeaders clears any body and Content-Length while leaving
// every other header intact — used for HEAD (which reuses GET's headers
// with no body, per spec.md's pinned resolution) and for forced 204/304
// responses.
func (r *Response) ClearBodyKeepHeaders() {
	r.body = nil
	r.kind = contentNone
	r.Header.Del(ResContentLength)
}

// Reset clears the response for pooled reuse.
func (r *Response) Reset() {
	r.Status = 0
	r.Header.Reset()
	r.kind = contentNone
	r.body = nil
	r.sse = nil
}
