package session

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	"github.com/yourusername/levin/core"
	"github.com/yourusername/levin/router"
)

// Server accepts connections and hands each to its own Conn.Serve loop,
// grounded on shockwave/pkg/shockwave/server.BaseServer's accept/track/
// shutdown shape but trimmed to what spec.md's connection model needs: no
// TLS termination, no legacy-handler interface, no connection semaphore.
type Server struct {
	Router *router.Router
	Config core.Config

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
	closing  atomic.Bool
}

// NewServer builds a Server ready to Serve once a listener is available.
func NewServer(rt *router.Router, cfg core.Config) *Server {
	return &Server{
		Router: rt,
		Config: cfg,
		conns:  make(map[net.Conn]struct{}),
	}
}

// Serve accepts connections from l until Shutdown is called or Accept
// returns a permanent error.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	keepAlive := s.Config.KeepAliveTimeout
	for {
		nc, err := l.Accept()
		if err != nil {
			if s.closing.Load() {
				return nil
			}
			return err
		}

		s.track(nc)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(nc)
			NewConn(nc, s.Router, s.Config).Serve(keepAlive)
		}()
	}
}

// ListenAndServe resolves addr to a TCP listener and serves it.
func (s *Server) ListenAndServe(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Shutdown stops accepting new connections and waits for in-flight ones to
// finish, up to ctx's deadline; remaining connections are force-closed if
// it expires first — mirrors BaseServer.Shutdown's listener-close-then-wait
// shape.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.closing.CompareAndSwap(false, true) {
		return nil
	}

	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l != nil {
		l.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.closeAll()
		return ctx.Err()
	}
}

func (s *Server) track(nc net.Conn) {
	s.mu.Lock()
	s.conns[nc] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(nc net.Conn) {
	s.mu.Lock()
	delete(s.conns, nc)
	s.mu.Unlock()
}

func (s *Server) closeAll() {
	s.mu.Lock()
	conns := make([]net.Conn, 0, len(s.conns))
	for nc := range s.conns {
		conns = append(conns, nc)
	}
	s.mu.Unlock()
	for _, nc := range conns {
		nc.Close()
	}
}
