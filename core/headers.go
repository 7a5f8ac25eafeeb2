package core

// ResponseHeaders stores response header state in three tiers: a
// fixed, enum-indexed array for the 29 well-known names (no map lookup on
// the hot path), a lazily-allocated map for anything else, and an
// append-only Set-Cookie list (RFC 6265 forbids folding multiple cookies
// into one line). size is kept exactly equal to the byte length the header
// block will occupy on the wire — every mutation updates it in the same
// breath it touches storage, so serialization never has to re-measure.
type ResponseHeaders struct {
	index  [resHeaderCount]int32 // -1 = absent; else offset into values
	values []string

	custom map[string]string

	setCookies []string

	size int
}

const headerAbsent = -1

// NewResponseHeaders returns an empty header set ready to accumulate.
func NewResponseHeaders() *ResponseHeaders {
	h := &ResponseHeaders{values: make([]string, 0, resHeaderCount)}
	for i := range h.index {
		h.index[i] = headerAbsent
	}
	return h
}

func lineLen(name string, value string) int {
	// "name: value\r\n"
	return len(name) + 2 + len(value) + 2
}

// Set stores or replaces the value for a well-known header.
func (h *ResponseHeaders) Set(name ResHeader, value string) {
	idx := h.index[name]
	if idx == headerAbsent {
		h.index[name] = int32(len(h.values))
		h.values = append(h.values, value)
		h.size += lineLen(name.String(), value)
		return
	}
	old := h.values[idx]
	h.size += lineLen(name.String(), value) - lineLen(name.String(), old)
	h.values[idx] = value
}

// Get returns a well-known header's value and whether it is set.
func (h *ResponseHeaders) Get(name ResHeader) (string, bool) {
	idx := h.index[name]
	if idx == headerAbsent {
		return "", false
	}
	return h.values[idx], true
}

// Has reports whether a well-known header is set.
func (h *ResponseHeaders) Has(name ResHeader) bool {
	return h.index[name] != headerAbsent
}

// Del removes a well-known header if present.
func (h *ResponseHeaders) Del(name ResHeader) {
	idx := h.index[name]
	if idx == headerAbsent {
		return
	}
	h.size -= lineLen(name.String(), h.values[idx])
	h.index[name] = headerAbsent
	// the slot in values is left as a tombstone; VisitAll skips absent slots
	// by construction since only Set() publishes an index into it.
}

// SetCustom stores or replaces a header outside the well-known set.
func (h *ResponseHeaders) SetCustom(name, value string) {
	if h.custom == nil {
		h.custom = make(map[string]string, 4)
	}
	if old, ok := h.custom[name]; ok {
		h.size += lineLen(name, value) - lineLen(name, old)
	} else {
		h.size += lineLen(name, value)
	}
	h.custom[name] = value
}

// DelCustom removes a custom header if present.
func (h *ResponseHeaders) DelCustom(name string) {
	if h.custom == nil {
		return
	}
	if old, ok := h.custom[name]; ok {
		h.size -= lineLen(name, old)
		delete(h.custom, name)
	}
}

// AppendSetCookie adds another Set-Cookie line; cookies are never merged
// onto one line.
func (h *ResponseHeaders) AppendSetCookie(value string) {
	h.setCookies = append(h.setCookies, value)
	h.size += lineLen("Set-Cookie", value)
}

// Size returns the exact number of bytes the header block (excluding the
// blank line that terminates it) will occupy once serialized.
func (h *ResponseHeaders) Size() int { return h.size }

// VisitAll calls fn once per header line, well-known first in enum order,
// then custom headers, then Set-Cookie lines.
func (h *ResponseHeaders) VisitAll(fn func(name, value string)) {
	for i := ResHeader(0); i < resHeaderCount; i++ {
		idx := h.index[i]
		if idx == headerAbsent {
			continue
		}
		fn(i.String(), h.values[idx])
	}
	for name, value := range h.custom {
		fn(name, value)
	}
	for _, v := range h.setCookies {
		fn("Set-Cookie", v)
	}
}

// Reset clears all headers for pooled reuse.
func (h *ResponseHeaders) Reset() {
	for i := range h.index {
		h.index[i] = headerAbsent
	}
	h.values = h.values[:0]
	h.custom = nil
	h.setCookies = nil
	h.size = 0
}

// RequestHeaders stores the incoming request's headers: well-known names in
// a fixed array of borrowed byte slices (no copy out of the read buffer),
// anything else in a lazily-allocated custom map.
type RequestHeaders struct {
	present [reqHeaderCount]bool
	values  [reqHeaderCount][]byte

	custom map[string][]byte
}

// Set stores a header seen on the wire, routing it to its well-known slot
// when one exists.
func (h *RequestHeaders) Set(name, value []byte) {
	if rh, ok := lookupReqHeader(name); ok {
		h.present[rh] = true
		h.values[rh] = value
		return
	}
	if h.custom == nil {
		h.custom = make(map[string][]byte, 4)
	}
	h.custom[string(name)] = value
}

// Get returns a well-known header's raw bytes.
func (h *RequestHeaders) Get(name ReqHeader) ([]byte, bool) {
	if !h.present[name] {
		return nil, false
	}
	return h.values[name], true
}

// GetString returns a well-known header's value as a string, or "".
func (h *RequestHeaders) GetString(name ReqHeader) string {
	if v, ok := h.Get(name); ok {
		return string(v)
	}
	return ""
}

// GetCustom looks up a header outside the well-known set, case
// sensitively (callers should pass the canonical wire casing, mirroring
// how the reader stored it).
func (h *RequestHeaders) GetCustom(name string) ([]byte, bool) {
	if h.custom == nil {
		return nil, false
	}
	v, ok := h.custom[name]
	return v, ok
}

// Reset clears all headers for pooled reuse.
func (h *RequestHeaders) Reset() {
	for i := range h.present {
		h.present[i] = false
		h.values[i] = nil
	}
	h.custom = nil
}
