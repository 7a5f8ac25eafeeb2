package core

import (
	"os"
	"strconv"
	"time"
)

// Config collects the knobs the session layer and router need. Unlike
// bolt's Config, Levin treats configuration as a value passed in at
// construction, not a package global — the lone exception is
// KeepAliveTimeout's environment-variable default, which spec.md pins to a
// specific env var name.
type Config struct {
	// KeepAliveTimeout bounds an entire connection's accept-to-close
	// lifetime of idle waiting, not any single request. Zero disables the
	// timeout.
	KeepAliveTimeout time.Duration

	// ReadBufferSize is the fixed page size the reader parses a request
	// into. spec.md pins this to 1024 bytes; override only for testing.
	ReadBufferSize int

	// MaxRequestsPerConnection caps keep-alive reuse; 0 means unlimited.
	MaxRequestsPerConnection int

	// ErrorHandler converts handler/fang errors into responses.
	ErrorHandler ErrorHandler
}

const (
	keepAliveEnvVar     = "OHKAMI_KEEPALIVE_TIMEOUT"
	defaultKeepAliveSec = 10
	DefaultPageSize     = 1024
)

// DefaultConfig returns the framework defaults, reading
// OHKAMI_KEEPALIVE_TIMEOUT once (spec.md's single sanctioned piece of
// process-wide state) and falling back to 10s when unset or unparsable.
func DefaultConfig() Config {
	return Config{
		KeepAliveTimeout:         keepAliveFromEnv(),
		ReadBufferSize:           DefaultPageSize,
		MaxRequestsPerConnection: 0,
		ErrorHandler:             DefaultErrorHandler,
	}
}

func keepAliveFromEnv() time.Duration {
	v := os.Getenv(keepAliveEnvVar)
	if v == "" {
		return defaultKeepAliveSec * time.Second
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return defaultKeepAliveSec * time.Second
	}
	return time.Duration(secs) * time.Second
}
