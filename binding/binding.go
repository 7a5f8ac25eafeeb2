// Package binding implements C6: converting a handler written against a
// narrow, typed parameter list into the uniform router.Handler the router
// stores. Go has neither variadic generics nor overlapping trait impls, so
// rather than one combinatorial adapter, this package exposes a small,
// explicit family of constructors (P0, P1, P2, Items1, ...) — the shape
// spec.md's own design notes anticipate, and the same shape bolt's
// Data[T]/GenericHandler[T] fakes for its single-type-param case.
package binding

import "github.com/yourusername/levin/core"
import "github.com/yourusername/levin/router"

// Handler is the typed-parameter handler shape every adapter below
// converts into a router.Handler. It returns the built Response by value
// rather than mutating ctx.Response directly, so a handler body reads like
// a pure function of its inputs.
type Handler[P any] func(*core.Context, P) core.Response

// P0 adapts a handler that needs nothing beyond the Context — no path
// params, no extracted items.
func P0(fn func(*core.Context) core.Response) router.Handler {
	return func(c *core.Context) {
		res := fn(c)
		*c.Response = res
	}
}

// ParamParser converts a single raw path-param string into A, for use with
// P1/P2. strconv.Atoi and similar stdlib converters satisfy this directly
// once wrapped, e.g. func(s string) (int, error) { return strconv.Atoi(s) }.
type ParamParser[A any] func(string) (A, error)

// P1 adapts a handler taking one captured path parameter, looked up by
// name from Context.Param and parsed with parse. A malformed param (parse
// error, or the param being altogether absent) yields core.ErrBadRequest
// without calling fn.
func P1[A any](name string, parse ParamParser[A], fn func(*core.Context, A) core.Response) router.Handler {
	return func(c *core.Context) {
		raw, ok := c.Param(name)
		if !ok {
			*c.Response = badRequest(c, core.ErrBadRequest)
			return
		}
		a, err := parse(raw)
		if err != nil {
			*c.Response = badRequest(c, err)
			return
		}
		*c.Response = fn(c, a)
	}
}

// P2 adapts a handler taking two captured path parameters.
func P2[A, B any](
	nameA string, parseA ParamParser[A],
	nameB string, parseB ParamParser[B],
	fn func(*core.Context, A, B) core.Response,
) router.Handler {
	return func(c *core.Context) {
		rawA, ok := c.Param(nameA)
		if !ok {
			*c.Response = badRequest(c, core.ErrBadRequest)
			return
		}
		rawB, ok := c.Param(nameB)
		if !ok {
			*c.Response = badRequest(c, core.ErrBadRequest)
			return
		}
		a, err := parseA(rawA)
		if err != nil {
			*c.Response = badRequest(c, err)
			return
		}
		b, err := parseB(rawB)
		if err != nil {
			*c.Response = badRequest(c, err)
			return
		}
		*c.Response = fn(c, a, b)
	}
}

// FromPayload is the standard-item extractor for a request body, mirroring
// spec.md's "Extractors for the standard item kinds": an implementation
// parses the raw payload into itself and names the MIME type it accepts,
// so Items1 can reject a mismatched Content-Type before parsing.
type FromPayload interface {
	ParsePayload([]byte) error
	MIME() string
}

// FromQuery is the standard-item extractor for the query string.
type FromQuery interface {
	ParseQuery(*core.Query) error
}

// Items1 adapts a handler taking one extracted item from the request
// payload, via new(A)'s FromPayload. new(A) must be a pointer type
// implementing FromPayload; A itself is passed to fn by value after
// extraction. See ItemsQuery for the query-string counterpart.
func Items1[A any, PA interface {
	*A
	FromPayload
}](fn func(*core.Context, A) core.Response) router.Handler {
	return func(c *core.Context) {
		var a A
		pa := PA(&a)
		if mime := pa.MIME(); mime != "" {
			if ct, ok := c.Request.Header.Get(core.ReqContentType); ok && !mimeMatches(string(ct), mime) {
				*c.Response = unsupportedMedia()
				return
			}
		}
		if err := pa.ParsePayload(c.Request.Payload); err != nil {
			*c.Response = badRequest(c, err)
			return
		}
		*c.Response = fn(c, a)
	}
}

// ItemsQuery adapts a handler taking one extracted item parsed field-by-field
// from the query string, via new(A)'s FromQuery, per spec.md §4.6's typed
// query extraction.
func ItemsQuery[A any, PA interface {
	*A
	FromQuery
}](fn func(*core.Context, A) core.Response) router.Handler {
	return func(c *core.Context) {
		var a A
		pa := PA(&a)
		if err := pa.ParseQuery(c.Query()); err != nil {
			*c.Response = badRequest(c, err)
			return
		}
		*c.Response = fn(c, a)
	}
}

// Memoized reads a value the memo store holds under key, type-asserting it
// to T. Returns false (not a panic) on a missing key or a type mismatch,
// so callers can fall back or 500 deliberately rather than via the session
// loop's generic panic boundary.
func Memoized[T any](c *core.Context, key string) (T, bool) {
	var zero T
	v := c.Get(key)
	if v == nil {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

func unsupportedMedia() core.Response {
	res := *core.NewResponse(415)
	res.SetText(core.ErrUnsupportedMedia.Error())
	return res
}

func badRequest(c *core.Context, err error) core.Response {
	res := *core.NewResponse(400)
	res.SetText(err.Error())
	return res
}

func mimeMatches(contentType, want string) bool {
	for i := 0; i < len(contentType); i++ {
		if contentType[i] == ';' {
			contentType = contentType[:i]
			break
		}
	}
	return equalFold(trimSpace(contentType), want)
}

func trimSpace(s string) string {
	for len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 32
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 32
		}
		if ca != cb {
			return false
		}
	}
	return true
}
