// Package jwtauth implements a bearer-token FrontFang, grounded on
// bolt/middleware/jwt/jwt.go but with its hand-rolled mutex-guarded
// tokenCache replaced by golang.org/x/sync/singleflight: concurrent
// requests bearing the same not-yet-cached token collapse into one
// jwt.Parse call instead of racing to populate the cache independently.
package jwtauth

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/yourusername/levin/core"
)

var (
	ErrMissingToken      = errors.New("jwtauth: missing authorization token")
	ErrInvalidAuthHeader = errors.New("jwtauth: invalid authorization header format")
	ErrInvalidToken      = errors.New("jwtauth: invalid token")
	ErrInvalidClaims     = errors.New("jwtauth: invalid token claims")
)

// Config mirrors bolt/middleware/jwt.JWTConfig.
type Config struct {
	Secret     []byte
	Algorithm  string
	ContextKey string
	CacheTTL   time.Duration
}

// DefaultConfig validates HS256 tokens against secret, storing claims
// under the memo key "user", with a 5-minute claims cache.
func DefaultConfig(secret []byte) Config {
	return Config{
		Secret:     secret,
		Algorithm:  "HS256",
		ContextKey: "user",
		CacheTTL:   5 * time.Minute,
	}
}

type cacheEntry struct {
	claims  jwt.MapClaims
	expires time.Time
}

// JWTAuth builds a FrontFang validating a Bearer token from the
// Authorization header and storing its claims in the memo store under
// config.ContextKey for downstream handlers/extractors.
func JWTAuth(config Config) *fang {
	if config.Algorithm == "" {
		config.Algorithm = "HS256"
	}
	if config.ContextKey == "" {
		config.ContextKey = "user"
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 5 * time.Minute
	}
	return &fang{config: config, cache: make(map[string]cacheEntry)}
}

type fang struct {
	config Config

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]cacheEntry
}

func (*fang) ID() string { return "levin.fangs.jwtauth" }

func (f *fang) Before(c *core.Context) error {
	auth, ok := c.Request.Header.Get(core.ReqAuthorization)
	if !ok || len(auth) == 0 {
		return withStatus(ErrMissingToken, 401)
	}
	parts := strings.SplitN(string(auth), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return withStatus(ErrInvalidAuthHeader, 401)
	}
	token := parts[1]

	if claims, ok := f.fromCache(token); ok {
		c.Set(f.config.ContextKey, claims)
		return nil
	}

	v, err, _ := f.group.Do(token, func() (interface{}, error) {
		return f.validate(token)
	})
	if err != nil {
		return withStatus(err, 401)
	}
	claims := v.(jwt.MapClaims)
	f.toCache(token, claims)
	c.Set(f.config.ContextKey, claims)
	return nil
}

func (f *fang) validate(token string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != f.config.Algorithm {
			return nil, ErrInvalidToken
		}
		return f.config.Secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

func (f *fang) fromCache(token string) (jwt.MapClaims, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.cache[token]
	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	return e.claims, true
}

func (f *fang) toCache(token string, claims jwt.MapClaims) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache[token] = cacheEntry{claims: claims, expires: time.Now().Add(f.config.CacheTTL)}
}

// statusError lets Before return a sentinel with an explicit status, since
// core's own error taxonomy doesn't know about JWT-specific failures.
type statusError struct {
	error
	status int
}

func withStatus(err error, status int) error { return statusError{err, status} }

// Unwrap exposes the wrapped sentinel to errors.Is.
func (e statusError) Unwrap() error { return e.error }

// Status reports the HTTP status a jwtauth error should map to, for a
// custom ErrorHandler to consult; DefaultErrorHandler falls back to 500
// for errors it doesn't recognize, so apps using JWTAuth should register
// an ErrorHandler that checks this.
func Status(err error) (int, bool) {
	var se statusError
	if errors.As(err, &se) {
		return se.status, true
	}
	return 0, false
}
