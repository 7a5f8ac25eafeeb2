package fangs

import (
	"strconv"
	"strings"

	"github.com/yourusername/levin/core"
	"github.com/yourusername/levin/router"
)

// CORSConfig mirrors bolt/middleware/cors.go's CORSConfig.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig allows any origin, the standard method set, and any
// request header.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders: []string{"*"},
		MaxAge:       86400,
	}
}

type cors struct {
	allowAll         bool
	origins          map[string]bool
	allowMethods     string
	allowHeaders     string
	exposeHeaders    string
	allowCredentials string
	maxAge           string
}

// CORS builds a FrontFang implementing Cross-Origin Resource Sharing,
// grounded on bolt/middleware/cors.go's header logic, adapted to write
// directly into ResponseHeaders rather than through a wrapping Middleware.
func CORS(config CORSConfig) router.Fang {
	if len(config.AllowOrigins) == 0 {
		config.AllowOrigins = []string{"*"}
	}
	if len(config.AllowMethods) == 0 {
		config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}
	}
	if len(config.AllowHeaders) == 0 {
		config.AllowHeaders = []string{"*"}
	}
	if config.MaxAge == 0 {
		config.MaxAge = 86400
	}

	c := cors{
		allowMethods:  strings.Join(config.AllowMethods, ", "),
		allowHeaders:  strings.Join(config.AllowHeaders, ", "),
		exposeHeaders: strings.Join(config.ExposeHeaders, ", "),
		maxAge:        strconv.Itoa(config.MaxAge),
	}
	if config.AllowCredentials {
		c.allowCredentials = "true"
	}
	c.origins = make(map[string]bool, len(config.AllowOrigins))
	for _, o := range config.AllowOrigins {
		if o == "*" {
			c.allowAll = true
			break
		}
		c.origins[o] = true
	}
	return c
}

func (cors) ID() string { return "levin.fangs.cors" }

func (c cors) Before(ctx *core.Context) error {
	origin, ok := ctx.Request.Header.Get(core.ReqOrigin)
	if !ok {
		return nil
	}
	allow := ""
	if c.allowAll {
		allow = "*"
	} else if c.origins[string(origin)] {
		allow = string(origin)
	}
	if allow == "" {
		return nil
	}

	ctx.Response.WithHeader(core.ResAccessControlAllowOrigin, allow)
	if c.allowCredentials == "true" {
		ctx.Response.WithHeader(core.ResAccessControlAllowCredentials, c.allowCredentials)
	}
	if c.exposeHeaders != "" {
		ctx.Response.WithHeader(core.ResAccessControlExposeHeaders, c.exposeHeaders)
	}

	if ctx.Request.Method == core.OPTIONS {
		ctx.Response.WithHeader(core.ResAccessControlAllowMethods, c.allowMethods)
		ctx.Response.WithHeader(core.ResAccessControlAllowHeaders, c.allowHeaders)
		ctx.Response.WithHeader(core.ResAccessControlMaxAge, c.maxAge)
	}
	return nil
}
