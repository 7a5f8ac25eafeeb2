package router

import (
	"fmt"
	"strings"

	"github.com/yourusername/levin/core"
	"github.com/yourusername/levin/wire"
)

// Router is a trie during registration (Register/Merge/Mount) and, once
// Build has run, an immutable structure safe to walk concurrently from
// many goroutines without locks — mirroring original_source's RadixRouter,
// which is never mutated after the Ohkami value it belongs to is built.
type Router struct {
	root  *node
	built bool
}

// New returns an empty, still-mutable router.
func New() *Router {
	return &Router{root: newNode("", false, false)}
}

// Build freezes the router. Calling Register or Merge afterward panics —
// mirroring spec.md's "the compiled radix router is immutable" invariant.
func (r *Router) Build() { r.built = true }

func methodIndex(m core.Method) int { return int(m) }

// Register adds a route. pattern segments starting with ':' capture a
// named param; a segment starting with '*' is a catch-all capturing the
// rest of the path and must be the pattern's last segment.
func (r *Router) Register(method core.Method, pattern string, h Handler, fangs ...Fang) {
	if r.built {
		panic("levin/router: Register called after Build")
	}
	front, back := splitFangs(fangs)

	segs := splitSegments(pattern)
	nParams := 0
	for _, seg := range segs {
		if len(seg) > 0 && (seg[0] == ':' || seg[0] == '*') {
			nParams++
		}
	}
	if nParams > core.MaxParams {
		panic(fmt.Sprintf("levin/router: route %q captures %d params, exceeding the %d-param limit", pattern, nParams, core.MaxParams))
	}

	n := r.root
	for i, seg := range segs {
		n = n.childFor(seg)
		if n.isCatchAll && i != len(segs)-1 {
			panic(fmt.Sprintf("levin/router: catch-all segment %q must be last in %q", seg, pattern))
		}
	}

	mi := methodIndex(method)
	if n.hasHandler[mi] {
		panic(fmt.Sprintf("levin/router: duplicate registration for %s %q", method, pattern))
	}
	n.setHandler(mi, h, front, back)

	if method == core.GET {
		// HEAD transparently reuses GET's tree per spec.md's pinned answer
		// to the HEAD Open Question: same handler, session loop forces an
		// empty body and 204 after calling it.
		n.setHandler(methodIndex(core.HEAD), h, front, back)
	}
}

func splitFangs(fangs []Fang) (front, back []Fang) {
	for _, f := range fangs {
		if _, ok := f.(FrontFang); ok {
			front = append(front, f)
		}
		if _, ok := f.(BackFang); ok {
			back = append(back, f)
		}
	}
	return
}

func splitSegments(pattern string) []string {
	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Merge grafts other's tree under prefix, unioning fangs at any node the
// two trees share by identity (Fang.ID), per spec.md's merge testable
// property. Both routers must still be mutable (pre-Build).
func (r *Router) Merge(prefix string, other *Router) {
	if r.built {
		panic("levin/router: Merge called after Build")
	}
	segs := splitSegments(prefix)
	n := r.root
	for _, seg := range segs {
		n = n.childFor(seg)
	}
	mergeInto(n, other.root)
}

func mergeInto(dst, src *node) {
	for m := 0; m < methodCount; m++ {
		if src.hasHandler[m] {
			dst.handlers[m] = src.handlers[m]
			dst.hasHandler[m] = true
		}
	}
	dst.front = dedupFangs(dst.front, src.front)
	dst.back = dedupFangs(dst.back, src.back)

	for _, sc := range src.children {
		seg := sc.segment
		if sc.isParam {
			seg = ":" + seg
			if sc.isCatchAll {
				seg = "*" + sc.segment
			}
		}
		dc := dst.childFor(seg)
		mergeInto(dc, sc)
	}
}

// Dispatch resolves method and the request's raw path to a handler and its
// fang chain, capturing path params directly onto req. The path is
// percent-decoded exactly once here, before any trie traversal — into a
// fresh copy when it contains escapes, otherwise the raw bytes are reused
// as-is. Either way req.RawPath() keeps the original encoded bytes
// available for logging, per spec.md §4.2.
func (r *Router) Dispatch(req *core.Request, method core.Method) (h Handler, front, back []Fang, found bool) {
	decoded := wire.PercentDecode(req.RawPath())
	req.SetDecodedPath(decoded)

	segs := splitSegments(string(decoded))
	return r.search(r.root, segs, req, method)
}

func (r *Router) search(n *node, segs []string, req *core.Request, method core.Method) (Handler, []Fang, []Fang, bool) {
	front := append([]Fang(nil), n.front...)
	back := make([]Fang, 0, len(n.back))
	for i := len(n.back) - 1; i >= 0; i-- {
		back = append(back, n.back[i])
	}

	if len(segs) == 0 {
		mi := methodIndex(method)
		if n.hasHandler[mi] {
			return n.handlers[mi], front, back, true
		}
		if method == core.OPTIONS {
			// OPTIONS never needs a registered handler: per spec.md §4.3 it
			// runs only the OPTIONS-specific fangs collected along the
			// matched path and defaults to 204 if none short-circuit.
			return nil, front, back, true
		}
		return nil, nil, nil, false
	}

	seg, rest := segs[0], segs[1:]

	// statics first, by construction of node.children's ordering
	for _, c := range n.children {
		if c.isParam {
			break
		}
		if c.segment == seg {
			if h, f, b, ok := r.search(c, rest, req, method); ok {
				return h, append(front, f...), append(b, back...), true
			}
		}
	}
	for _, c := range n.children {
		if !c.isParam {
			continue
		}
		if c.isCatchAll {
			req.SetParamCapture(c.segment, []byte(strings.Join(segs, "/")))
			mi := methodIndex(method)
			if c.hasHandler[mi] {
				cb := make([]Fang, 0, len(c.back)+len(back))
				for i := len(c.back) - 1; i >= 0; i-- {
					cb = append(cb, c.back[i])
				}
				return c.handlers[mi], append(front, c.front...), append(cb, back...), true
			}
			continue
		}
		req.SetParamCapture(c.segment, []byte(seg))
		if h, f, b, ok := r.search(c, rest, req, method); ok {
			return h, append(front, f...), append(b, back...), true
		}
	}
	return nil, nil, nil, false
}
