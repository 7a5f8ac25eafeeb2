// Package fangs collects concrete front/back fangs apps attach at
// registration time, grounded on bolt/middleware's functional-option
// middleware but reshaped onto router.FrontFang/BackFang rather than
// bolt's next(Handler)-wrapping Middleware, since this module's fang chain
// is flattened at dispatch time instead of nested at registration time.
package fangs

import (
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/yourusername/levin/core"
)

const loggerStartKey = "levin.fangs.logger.start"

// LoggerConfig configures Logger, mirroring bolt/middleware/logger.go's
// LoggerConfig.
type LoggerConfig struct {
	Output    io.Writer
	SkipPaths []string
}

// DefaultLoggerConfig writes structured JSON lines to stdout.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{Output: os.Stdout}
}

type logEntry struct {
	Time       string  `json:"time"`
	Method     string  `json:"method"`
	Path       string  `json:"path"`
	Status     int     `json:"status"`
	DurationMS float64 `json:"duration_ms"`
}

// Logger returns a front/back fang pair: the front half stamps the start
// time, the back half (run after the handler, per the fang chain's
// defer-stack ordering) emits one JSON line per request.
func Logger() (front loggerFront, back loggerBack) {
	return LoggerWithConfig(DefaultLoggerConfig())
}

// LoggerWithConfig is Logger with an explicit output/skip-path config.
func LoggerWithConfig(config LoggerConfig) (loggerFront, loggerBack) {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}
	return loggerFront{skip: skip}, loggerBack{out: config.Output, skip: skip}
}

type loggerFront struct{ skip map[string]bool }

func (loggerFront) ID() string { return "levin.fangs.logger" }

func (f loggerFront) Before(c *core.Context) error {
	if f.skip[string(c.Request.Path())] {
		return nil
	}
	c.Set(loggerStartKey, time.Now())
	return nil
}

type loggerBack struct {
	out  io.Writer
	skip map[string]bool
}

func (loggerBack) ID() string { return "levin.fangs.logger" }

func (b loggerBack) After(c *core.Context) {
	if b.skip[string(c.Request.Path())] {
		return
	}
	start, ok := c.Get(loggerStartKey).(time.Time)
	if !ok {
		return
	}
	entry := logEntry{
		Time:       start.UTC().Format(time.RFC3339),
		Method:     c.Request.Method.String(),
		Path:       string(c.Request.Path()),
		Status:     c.Response.Status,
		DurationMS: float64(time.Since(start).Microseconds()) / 1000.0,
	}
	enc := json.NewEncoder(b.out)
	enc.Encode(entry)
}
