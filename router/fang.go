// Package router implements the two-phase router spec.md calls for: a
// mutable trie built at registration time (router.Router, via Register and
// Merge) and an immutable form walked at dispatch time (Dispatch). Both
// phases live on the same node tree here — Build() only freezes it — since
// Go's GC makes the borrow-checker-driven arena split the original Rust
// implementation needs unnecessary.
package router

import "github.com/yourusername/levin/core"

// Handler is a fully-bound route handler: by the time the router calls
// one, path params have already been captured onto core.Context.Request.
type Handler func(*core.Context)

// Fang is a middleware unit attached to a trie node. ID gives it a stable
// identity so Merge can deduplicate a fang appearing at an overlapping
// node in both subtrees, per spec.md's merge invariant.
type Fang interface {
	ID() string
}

// FrontFang runs before the handler, in registration order, for every
// route whose trie path passes through the node it's attached to. It can
// short-circuit the chain by returning a non-nil error.
type FrontFang interface {
	Fang
	Before(*core.Context) error
}

// BackFang runs after the handler (or after a FrontFang short-circuits),
// in reverse registration order — innermost node's back fangs first,
// mirroring a defer stack.
type BackFang interface {
	Fang
	After(*core.Context)
}

// FrontFangFunc adapts a plain function to FrontFang, identified by name.
type FrontFangFunc struct {
	Name string
	Fn   func(*core.Context) error
}

func (f FrontFangFunc) ID() string               { return f.Name }
func (f FrontFangFunc) Before(c *core.Context) error { return f.Fn(c) }

// BackFangFunc adapts a plain function to BackFang, identified by name.
type BackFangFunc struct {
	Name string
	Fn   func(*core.Context)
}

func (f BackFangFunc) ID() string          { return f.Name }
func (f BackFangFunc) After(c *core.Context) { f.Fn(c) }

func dedupFangs(existing, incoming []Fang) []Fang {
	seen := make(map[string]bool, len(existing))
	for _, f := range existing {
		seen[f.ID()] = true
	}
	out := existing
	for _, f := range incoming {
		if !seen[f.ID()] {
			out = append(out, f)
			seen[f.ID()] = true
		}
	}
	return out
}
