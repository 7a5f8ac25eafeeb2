package fangs

import (
	"bytes"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/yourusername/levin/core"
)

// GzipConfig configures the Gzip back fang.
type GzipConfig struct {
	// Level is the klauspost/compress/gzip compression level; 0 uses the
	// package default.
	Level int
	// MinLength skips compression for bodies smaller than this, since
	// gzip framing overhead can exceed the savings on tiny payloads.
	MinLength int
}

// DefaultGzipConfig uses the default compression level and a 256-byte
// floor.
func DefaultGzipConfig() GzipConfig {
	return GzipConfig{Level: gzip.DefaultCompression, MinLength: 256}
}

// Gzip builds a BackFang that compresses the response body with
// klauspost/compress/gzip when the request's Accept-Encoding includes
// gzip and the response is a fixed (non-SSE) body over MinLength bytes.
func Gzip(config GzipConfig) gzipFang {
	if config.Level == 0 {
		config.Level = gzip.DefaultCompression
	}
	return gzipFang{level: config.Level, minLength: config.MinLength}
}

type gzipFang struct {
	level     int
	minLength int
}

func (gzipFang) ID() string { return "levin.fangs.gzip" }

func (f gzipFang) After(c *core.Context) {
	if c.Response.IsSSE() {
		return
	}
	body := c.Response.Body()
	if len(body) < f.minLength {
		return
	}
	accept, ok := c.Request.Header.Get(core.ReqAcceptEncoding)
	if !ok || !strings.Contains(string(accept), "gzip") {
		return
	}

	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, f.level)
	if err != nil {
		return
	}
	if _, err := w.Write(body); err != nil {
		w.Close()
		return
	}
	if err := w.Close(); err != nil {
		return
	}

	c.Response.SetBytes(contentTypeOf(c), buf.Bytes())
	c.Response.WithHeader(core.ResContentEncoding, "gzip")
}

func contentTypeOf(c *core.Context) string {
	if ct, ok := c.Response.Header.Get(core.ResContentType); ok {
		return ct
	}
	return "application/octet-stream"
}
