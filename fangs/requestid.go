package fangs

import (
	"github.com/google/uuid"

	"github.com/yourusername/levin/core"
)

const requestIDMemoKey = "levin.fangs.requestid"

// RequestID builds a FrontFang that assigns a UUIDv4 to every request
// reaching it (reusing an inbound X-Request-Id if the caller already set
// one), stores it in the memo store for downstream fangs/handlers, and
// echoes it back on the response.
func RequestID() requestIDFang { return requestIDFang{} }

type requestIDFang struct{}

func (requestIDFang) ID() string { return "levin.fangs.requestid" }

func (requestIDFang) Before(c *core.Context) error {
	id := ""
	if v, ok := c.Request.Header.Get(core.ReqXRequestID); ok && len(v) > 0 {
		id = string(v)
	} else {
		id = uuid.NewString()
	}
	c.Set(requestIDMemoKey, id)
	c.Response.WithHeader(core.ResXRequestID, id)
	return nil
}

// RequestIDFrom reads the request ID a RequestID fang upstream attached.
func RequestIDFrom(c *core.Context) (string, bool) {
	id, ok := c.Get(requestIDMemoKey).(string)
	return id, ok
}
