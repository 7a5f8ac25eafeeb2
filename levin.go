// Package levin is the HTTP/1.1 application framework's facade: route
// registration, fang attachment, sub-app mounting, and server lifecycle,
// grounded on bolt/core/app.go's App but built over this module's own
// router/session packages instead of bolt's shockwave+IRouter pair.
package levin

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourusername/levin/core"
	"github.com/yourusername/levin/router"
	"github.com/yourusername/levin/session"
)

// App is the top-level handle applications build against: register routes
// with Get/Post/.../Mount, then start serving with Listen or Run.
type App struct {
	rt     *router.Router
	config core.Config
	server *session.Server
}

// New returns an App configured with DefaultConfig.
func New() *App {
	return NewWithConfig(core.DefaultConfig())
}

// NewWithConfig returns an App using an explicitly supplied Config.
func NewWithConfig(config core.Config) *App {
	if config.ErrorHandler == nil {
		config.ErrorHandler = core.DefaultErrorHandler
	}
	return &App{rt: router.New(), config: config}
}

// Get registers a GET route (and, per spec.md's pinned HEAD semantics,
// transparently reuses it for HEAD).
func (a *App) Get(pattern string, h router.Handler, fangs ...router.Fang) {
	a.rt.Register(core.GET, pattern, h, fangs...)
}

// Post registers a POST route.
func (a *App) Post(pattern string, h router.Handler, fangs ...router.Fang) {
	a.rt.Register(core.POST, pattern, h, fangs...)
}

// Put registers a PUT route.
func (a *App) Put(pattern string, h router.Handler, fangs ...router.Fang) {
	a.rt.Register(core.PUT, pattern, h, fangs...)
}

// Patch registers a PATCH route.
func (a *App) Patch(pattern string, h router.Handler, fangs ...router.Fang) {
	a.rt.Register(core.PATCH, pattern, h, fangs...)
}

// Delete registers a DELETE route.
func (a *App) Delete(pattern string, h router.Handler, fangs ...router.Fang) {
	a.rt.Register(core.DELETE, pattern, h, fangs...)
}

// Options registers an explicit OPTIONS handler for pattern; most apps
// don't need this, since OPTIONS already gets a default 204 at any
// registered path, per spec.md §4.3.
func (a *App) Options(pattern string, h router.Handler, fangs ...router.Fang) {
	a.rt.Register(core.OPTIONS, pattern, h, fangs...)
}

// Mount grafts a sub-app's router under prefix, per spec.md's merge
// testable property — fangs shared between the two at an overlapping node
// are deduplicated by Fang.ID.
func (a *App) Mount(prefix string, sub *App) {
	a.rt.Merge(prefix, sub.rt)
}

// Router exposes the underlying router for callers that need Register
// directly, e.g. to attach route-specific fangs via a helper the app
// facade doesn't wrap.
func (a *App) Router() *router.Router { return a.rt }

// Listen builds the router and blocks serving addr until the listener
// returns a permanent error.
func (a *App) Listen(addr string) error {
	a.rt.Build()
	a.server = session.NewServer(a.rt, a.config)
	log.Printf("levin: listening on %s", addr)
	return a.server.ListenAndServe(addr)
}

// Run is Listen with graceful shutdown on SIGINT/SIGTERM, grounded on
// bolt/core/app.go's Run: it starts the listener in the background, waits
// for either a fatal Serve error or a signal, and on signal drains
// in-flight connections for up to 30s before returning.
func (a *App) Run(addr string) error {
	a.rt.Build()
	a.server = session.NewServer(a.rt, a.config)

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("levin: serving on %s", addr)
		if err := a.server.Serve(l); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("levin: shutting down gracefully")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := a.Shutdown(ctx); err != nil {
			log.Printf("levin: shutdown error: %v", err)
			return err
		}
		log.Println("levin: stopped")
		return nil
	}
}

// Shutdown gracefully stops the running server, if one is active.
func (a *App) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}
