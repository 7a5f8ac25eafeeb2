package session

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/yourusername/levin/core"
)

func TestServerServesAcceptedConnections(t *testing.T) {
	rt := newTestRouter(t)
	cfg := core.DefaultConfig()
	s := NewServer(rt, cfg)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go s.Serve(l)

	client, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()
	client.SetDeadline(time.Now().Add(2 * time.Second))

	io.WriteString(client, "GET /ping HTTP/1.1\r\nConnection: close\r\n\r\n")
	br := bufio.NewReader(client)
	status := readStatusLine(t, br)
	if !strings.Contains(status, "200") {
		t.Fatalf("status line = %q", status)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestServerShutdownForceClosesOnDeadlineExpiry(t *testing.T) {
	rt := newTestRouter(t)
	cfg := core.DefaultConfig()
	cfg.KeepAliveTimeout = time.Minute
	s := NewServer(rt, cfg)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go s.Serve(l)

	client, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	// give the accept loop a moment to register the connection before we
	// shut down with an already-expired deadline, forcing the force-close
	// path rather than the graceful wait.
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	time.Sleep(2 * time.Millisecond)

	if err := s.Shutdown(ctx); err == nil {
		t.Fatal("expected Shutdown to report context deadline exceeded")
	}
}

func TestServerShutdownIsIdempotent(t *testing.T) {
	rt := newTestRouter(t)
	s := NewServer(rt, core.DefaultConfig())

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go s.Serve(l)

	ctx := context.Background()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("first Shutdown: %v", err)
	}
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("second Shutdown should be a no-op, got: %v", err)
	}
}
