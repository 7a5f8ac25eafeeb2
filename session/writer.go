package session

import (
	"bufio"
	"strconv"

	"github.com/yourusername/levin/core"
)

var statusText = map[int]string{
	200: "OK", 201: "Created", 202: "Accepted", 204: "No Content",
	301: "Moved Permanently", 302: "Found", 304: "Not Modified",
	400: "Bad Request", 401: "Unauthorized", 403: "Forbidden", 404: "Not Found",
	405: "Method Not Allowed", 409: "Conflict", 413: "Payload Too Large",
	415: "Unsupported Media Type", 426: "Upgrade Required",
	500: "Internal Server Error", 501: "Not Implemented",
	503: "Service Unavailable", 505: "HTTP Version Not Supported",
}

func reasonPhrase(status int) string {
	if t, ok := statusText[status]; ok {
		return t
	}
	return "Status"
}

// writeResponse serializes res to bw in the order spec.md §4.4 fixes:
// status line, well-known headers in enum order, custom headers, Set-Cookie
// lines, the blank line, then the body (or, for SSE, nothing yet — the
// caller streams frames after this returns).
func writeResponse(bw *bufio.Writer, res *core.Response) error {
	if _, err := bw.WriteString("HTTP/1.1 "); err != nil {
		return err
	}
	if _, err := bw.WriteString(strconv.Itoa(res.Status)); err != nil {
		return err
	}
	if err := bw.WriteByte(' '); err != nil {
		return err
	}
	if _, err := bw.WriteString(reasonPhrase(res.Status)); err != nil {
		return err
	}
	if _, err := bw.WriteString("\r\n"); err != nil {
		return err
	}

	var werr error
	res.Header.VisitAll(func(name, value string) {
		if werr != nil {
			return
		}
		if _, err := bw.WriteString(name); err != nil {
			werr = err
			return
		}
		if _, err := bw.WriteString(": "); err != nil {
			werr = err
			return
		}
		if _, err := bw.WriteString(value); err != nil {
			werr = err
			return
		}
		if _, err := bw.WriteString("\r\n"); err != nil {
			werr = err
		}
	})
	if werr != nil {
		return werr
	}

	if _, err := bw.WriteString("\r\n"); err != nil {
		return err
	}

	if res.IsSSE() {
		return nil
	}
	_, err := bw.Write(res.Body())
	return err
}

// writeSSEFrame writes one already-framed SSE event and flushes it
// immediately, since events are pushed, not buffered.
func writeSSEFrame(bw *bufio.Writer, frame []byte) error {
	if _, err := bw.Write(frame); err != nil {
		return err
	}
	return bw.Flush()
}
