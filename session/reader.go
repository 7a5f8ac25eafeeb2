// Package session implements C5: the per-connection accept/read/dispatch/
// write loop, grounded on shockwave/pkg/shockwave/http11/{parser,connection}.go
// but rebuilt around spec.md's fixed single-page buffer instead of
// shockwave's pooled 4KB scratch buffer, and with panic isolation and the
// keep-alive deadline moved to match spec.md's policy rather than the
// teacher's.
package session

import (
	"bufio"
	"errors"
	"io"

	"github.com/yourusername/levin/core"
)

// PageSize is the fixed buffer the reader parses a request's start-line
// and headers into, per spec.md §4.1.
const PageSize = core.DefaultPageSize

// MaxPayload is the hard ceiling on a request body; anything larger is
// rejected with 413 before it is read into memory.
const MaxPayload = 1 << 32

var (
	ErrRequestTooLarge      = errors.New("levin/session: request line or headers exceed page size")
	ErrMalformedRequest     = errors.New("levin/session: malformed request")
	ErrPayloadTooLarge      = errors.New("levin/session: payload exceeds limit")
	ErrUnsupportedVersion   = errors.New("levin/session: unsupported HTTP version")
	ErrMethodNotImplemented = errors.New("levin/session: method not implemented")
)

// reader parses one request at a time from a buffered connection, reusing
// its page buffer across requests on the same connection (the keep-alive
// fast path shockwave's Parser/tmpBufPool also optimizes for).
type reader struct {
	br  *bufio.Reader
	buf []byte // fixed PageSize scratch buffer for the request line + headers
}

func newReader(br *bufio.Reader) *reader {
	return &reader{br: br, buf: make([]byte, PageSize)}
}

// readRequest implements spec.md §4.1 steps 1–8: read the start-line and
// headers into the page buffer, then either borrow the payload from
// whatever of it landed in the same buffer, or stream the remainder
// straight from the connection when it's larger than one page.
func (r *reader) readRequest(req *core.Request) error {
	n, filled, err := r.fillUntilHeadersEnd()
	if err != nil {
		return err
	}
	head := r.buf[:n]

	line, rest, ok := cutLine(head)
	if !ok {
		return ErrMalformedRequest
	}
	methodB, uriB, protoB, ok := parseRequestLine(line)
	if !ok {
		return ErrMalformedRequest
	}
	method, ok := core.ParseMethod(methodB)
	if !ok {
		if isConnectOrTrace(methodB) {
			return ErrMethodNotImplemented
		}
		return ErrMalformedRequest
	}
	req.Method = method

	path, query := splitURI(uriB)
	req.SetRawPath(path)
	req.SetRawQuery(query)
	req.Proto = string(protoB)
	if req.Proto != "HTTP/1.1" {
		return ErrUnsupportedVersion
	}

	contentLength := -1
	for len(rest) > 0 {
		var headerLine []byte
		headerLine, rest, ok = cutLine(rest)
		if !ok {
			return ErrMalformedRequest
		}
		if len(headerLine) == 0 {
			break // blank line: end of headers
		}
		name, value, ok := splitHeaderLine(headerLine)
		if !ok {
			return ErrMalformedRequest
		}
		req.Header.Set(name, value)
		if equalFold(name, "Content-Length") {
			cl, perr := parseNonNegInt(value)
			if perr != nil {
				return ErrMalformedRequest
			}
			contentLength = cl
		}
		if equalFold(name, "Transfer-Encoding") {
			// spec.md's closed parsing model doesn't accept chunked input;
			// shockwave's parser does (NewChunkedReader) — deliberately not
			// carried over here, see DESIGN.md.
			return ErrMalformedRequest
		}
	}

	if contentLength <= 0 {
		req.Payload = nil
		return nil
	}
	if contentLength > MaxPayload {
		return ErrPayloadTooLarge
	}
	return r.readPayload(req, r.buf[n:filled], contentLength)
}

// fillUntilHeadersEnd reads into the fixed page buffer until it has seen
// "\r\n\r\n" or the buffer is exhausted, in which case the request is
// rejected rather than growing unbounded, per spec.md §4.1's fixed-page
// design (shockwave's parser instead grows/re-pools a scratch buffer up to
// a larger cap; spec.md pins a hard single-page ceiling). It returns the
// length of the head (through the blank line) and the total number of
// bytes read into the buffer, which may include the start of the payload.
func (r *reader) fillUntilHeadersEnd() (int, int, error) {
	n := 0
	for {
		if n == len(r.buf) {
			return 0, 0, ErrRequestTooLarge
		}
		m, err := r.br.Read(r.buf[n:])
		n += m
		if idx := indexCRLFCRLF(r.buf[:n]); idx >= 0 {
			return idx + 4, n, nil
		}
		if err != nil {
			if err == io.EOF && n == 0 {
				return 0, 0, io.EOF
			}
			return 0, 0, err
		}
	}
}

// readPayload returns the body as a borrowed slice when what's already in
// the page buffer (carryOver) covers it, otherwise allocates and reads the
// remainder from the connection.
func (r *reader) readPayload(req *core.Request, carryOver []byte, length int) error {
	if len(carryOver) >= length {
		req.Payload = carryOver[:length]
		return nil
	}
	body := make([]byte, length)
	copy(body, carryOver)
	if _, err := io.ReadFull(r.br, body[len(carryOver):]); err != nil {
		return err
	}
	req.Payload = body
	return nil
}

func cutLine(b []byte) (line, rest []byte, ok bool) {
	for i := 0; i+1 < len(b); i++ {
		if b[i] == '\r' && b[i+1] == '\n' {
			return b[:i], b[i+2:], true
		}
	}
	return nil, nil, false
}

func indexCRLFCRLF(b []byte) int {
	for i := 0; i+3 < len(b); i++ {
		if b[i] == '\r' && b[i+1] == '\n' && b[i+2] == '\r' && b[i+3] == '\n' {
			return i
		}
	}
	return -1
}

// isConnectOrTrace reports whether b is the literal method token CONNECT or
// TRACE — core.ParseMethod refuses both (core.Method never represents
// them), so the reader distinguishes them here to return 501 instead of the
// generic 400 any other unrecognized token gets.
func isConnectOrTrace(b []byte) bool {
	return equalFold(b, "CONNECT") || equalFold(b, "TRACE")
}

func parseRequestLine(line []byte) (method, uri, proto []byte, ok bool) {
	sp1 := indexByte(line, ' ')
	if sp1 < 0 {
		return nil, nil, nil, false
	}
	sp2 := indexByte(line[sp1+1:], ' ')
	if sp2 < 0 {
		return nil, nil, nil, false
	}
	sp2 += sp1 + 1
	method = line[:sp1]
	uri = line[sp1+1 : sp2]
	proto = line[sp2+1:]
	if len(uri) == 0 || (uri[0] != '/' && uri[0] != '*') {
		return nil, nil, nil, false
	}
	return method, uri, proto, true
}

func splitURI(uri []byte) (path, query []byte) {
	if i := indexByte(uri, '?'); i >= 0 {
		return uri[:i], uri[i+1:]
	}
	return uri, nil
}

func splitHeaderLine(line []byte) (name, value []byte, ok bool) {
	i := indexByte(line, ':')
	if i <= 0 {
		return nil, nil, false
	}
	name = line[:i]
	value = trimSpace(line[i+1:])
	return name, value, true
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}

func trimSpace(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}
	return b
}

func equalFold(b []byte, s string) bool {
	if len(b) != len(s) {
		return false
	}
	for i := 0; i < len(b); i++ {
		c, d := b[i], s[i]
		if c >= 'A' && c <= 'Z' {
			c += 32
		}
		if d >= 'A' && d <= 'Z' {
			d += 32
		}
		if c != d {
			return false
		}
	}
	return true
}

func parseNonNegInt(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, ErrMalformedRequest
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, ErrMalformedRequest
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
