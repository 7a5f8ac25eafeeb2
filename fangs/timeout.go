package fangs

import (
	"context"
	"time"

	"github.com/yourusername/levin/core"
)

const timeoutCtxKey = "levin.fangs.timeout.ctx"

// Timeout stores a context.Context carrying a deadline in the memo store
// for handlers to select on, rather than racing the handler in a second
// goroutine the way bolt/middleware/timeout.go does — a goroutine race
// can't actually stop a handler that ignores it, it only abandons the
// response while the handler keeps mutating shared state. Handlers that
// do I/O should read fangs.Deadline(c) and pass it down to whatever they
// call (an http.Client, a DB query, ...).
func Timeout(d time.Duration) timeoutFang {
	return timeoutFang{d: d}
}

type timeoutFang struct{ d time.Duration }

func (timeoutFang) ID() string { return "levin.fangs.timeout" }

func (f timeoutFang) Before(c *core.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), f.d)
	c.Set(timeoutCtxKey, ctx)
	c.Set(timeoutCtxKey+".cancel", cancel)
	return nil
}

func (timeoutFang) After(c *core.Context) {
	if cancel, ok := c.Get(timeoutCtxKey + ".cancel").(context.CancelFunc); ok {
		cancel()
	}
}

// Deadline returns the context a Timeout fang upstream attached, or
// context.Background() if none was attached.
func Deadline(c *core.Context) context.Context {
	if ctx, ok := c.Get(timeoutCtxKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}
