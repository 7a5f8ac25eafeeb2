// Package wsupgrade implements the handshake half of a WebSocket upgrade
// (spec.md §6) and nothing past it: no frame codec, no ping/pong loop, no
// masking. Grounded on shockwave/pkg/shockwave/websocket/upgrade.go's
// Upgrader.Upgrade, trimmed down to RFC 6455 §4.2's opening handshake and
// rewired onto core.Context.Hijack rather than http.Hijacker, since this
// module's Context already carries its own hijack hook.
package wsupgrade

import (
	"crypto/sha1"
	"encoding/base64"
	"errors"

	"github.com/yourusername/levin/core"
)

const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

var (
	ErrNotUpgrade       = errors.New("wsupgrade: not a websocket upgrade request")
	ErrBadVersion       = errors.New("wsupgrade: unsupported Sec-WebSocket-Version")
	ErrMissingKey       = errors.New("wsupgrade: missing Sec-WebSocket-Key")
	ErrCannotHijack     = errors.New("wsupgrade: connection does not support hijacking")
)

// Handshake validates req as an RFC 6455 upgrade request, writes the
// 101 Switching Protocols response, and hijacks the connection. subprotos
// is the server's supported subprotocol list in preference order; pass
// nil to skip subprotocol negotiation entirely.
func Handshake(c *core.Context, subprotos []string) error {
	req := c.Request
	if req.Method != core.GET {
		return ErrNotUpgrade
	}
	if !headerTokenContains(req, core.ReqConnection, "upgrade") {
		return ErrNotUpgrade
	}
	if !headerTokenContains(req, core.ReqUpgrade, "websocket") {
		return ErrNotUpgrade
	}
	version, _ := req.Header.Get(core.ReqSecWebSocketVersion)
	if string(version) != "13" {
		return ErrBadVersion
	}
	keyB, ok := req.Header.Get(core.ReqSecWebSocketKey)
	if !ok || len(keyB) == 0 {
		return ErrMissingKey
	}
	key := string(keyB)

	var clientProtos []string
	if protoB, ok := req.Header.Get(core.ReqSecWebSocketProtocol); ok {
		clientProtos = splitTokens(string(protoB))
	}
	subprotocol := selectSubprotocol(clientProtos, subprotos)

	nc, rw, err := c.Hijack()
	if err != nil {
		return ErrCannotHijack
	}

	var buf [256]byte
	n := 0
	n += copy(buf[n:], "HTTP/1.1 101 Switching Protocols\r\n")
	n += copy(buf[n:], "Upgrade: websocket\r\n")
	n += copy(buf[n:], "Connection: Upgrade\r\n")
	n += copy(buf[n:], "Sec-WebSocket-Accept: ")
	n += copy(buf[n:], computeAcceptKey(key))
	n += copy(buf[n:], "\r\n")
	if subprotocol != "" {
		n += copy(buf[n:], "Sec-WebSocket-Protocol: ")
		n += copy(buf[n:], subprotocol)
		n += copy(buf[n:], "\r\n")
	}
	n += copy(buf[n:], "\r\n")

	if _, err := rw.Write(buf[:n]); err != nil {
		nc.Close()
		return err
	}
	if err := rw.Flush(); err != nil {
		nc.Close()
		return err
	}
	return nil
}

// computeAcceptKey is RFC 6455 §1.3: base64(SHA1(key + GUID)).
func computeAcceptKey(key string) string {
	h := sha1.New()
	h.Write([]byte(key))
	h.Write([]byte(websocketGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func headerTokenContains(req *core.Request, name core.ReqHeader, token string) bool {
	v, ok := req.Header.Get(name)
	if !ok {
		return false
	}
	for _, t := range splitTokens(string(v)) {
		if equalFoldASCII(t, token) {
			return true
		}
	}
	return false
}

func splitTokens(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			out = append(out, trimSpace(s[start:i]))
			start = i + 1
		}
	}
	return out
}

func trimSpace(s string) string {
	for len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 32
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 32
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func selectSubprotocol(client, server []string) string {
	for _, c := range client {
		for _, s := range server {
			if c == s {
				return c
			}
		}
	}
	return ""
}
