// Package wire holds the byte-level primitives shared by the request reader
// and response writer: tagged borrowed/owned slices, percent-decoding, and
// HTTP-date formatting.
package wire

// Bytes is a slice that knows whether it aliases the connection's read
// buffer (borrowed) or holds memory of its own (owned). Borrowed data is
// only valid until the next read into that buffer; call ToOwned before letting
// a value outlive the current request if it must survive a buffer reuse.
type Bytes struct {
	b      []byte
	owned  bool
}

// Borrow wraps a slice that aliases shared, reused storage (the page
// buffer). The caller must not retain it past the point that storage is
// next written to.
func Borrow(b []byte) Bytes {
	return Bytes{b: b, owned: false}
}

// Own wraps a slice backed by memory nothing else will mutate or reclaim.
func Own(b []byte) Bytes {
	return Bytes{b: b, owned: true}
}

// Bytes returns the underlying slice, borrowed or owned.
func (v Bytes) Bytes() []byte { return v.b }

// String allocates a string copy of the underlying bytes.
func (v Bytes) String() string { return string(v.b) }

// IsOwned reports whether the slice is safe to retain past this request.
func (v Bytes) IsOwned() bool { return v.owned }

// IsEmpty reports whether the slice carries no bytes.
func (v Bytes) IsEmpty() bool { return len(v.b) == 0 }

// ToOwned returns a value guaranteed to be owned, copying only if v was
// borrowed.
func (v Bytes) ToOwned() Bytes {
	if v.owned {
		return v
	}
	cp := make([]byte, len(v.b))
	copy(cp, v.b)
	return Bytes{b: cp, owned: true}
}
