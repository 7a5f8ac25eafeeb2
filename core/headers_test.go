package core

import "testing"

func TestResponseHeadersSizeTracksMutations(t *testing.T) {
	h := NewResponseHeaders()
	if h.Size() != 0 {
		t.Fatalf("expected empty header set to have size 0, got %d", h.Size())
	}

	h.Set(ResContentType, "text/plain")
	want := len("Content-Type") + 2 + len("text/plain") + 2
	if h.Size() != want {
		t.Fatalf("after Set, size = %d, want %d", h.Size(), want)
	}

	h.Set(ResContentType, "application/json")
	want = len("Content-Type") + 2 + len("application/json") + 2
	if h.Size() != want {
		t.Fatalf("after replace, size = %d, want %d", h.Size(), want)
	}

	h.Del(ResContentType)
	if h.Size() != 0 {
		t.Fatalf("after Del, size = %d, want 0", h.Size())
	}
}

func TestResponseHeadersCustomAndCookies(t *testing.T) {
	h := NewResponseHeaders()
	h.SetCustom("X-Trace-Id", "abc")
	h.AppendSetCookie("a=1")
	h.AppendSetCookie("b=2")

	wantSize := lineLen("X-Trace-Id", "abc") + lineLen("Set-Cookie", "a=1") + lineLen("Set-Cookie", "b=2")
	if h.Size() != wantSize {
		t.Fatalf("size = %d, want %d", h.Size(), wantSize)
	}

	var cookieLines int
	h.VisitAll(func(name, value string) {
		if name == "Set-Cookie" {
			cookieLines++
		}
	})
	if cookieLines != 2 {
		t.Fatalf("expected two distinct Set-Cookie lines, got %d", cookieLines)
	}

	h.DelCustom("X-Trace-Id")
	if h.Has(ResContentType) {
		t.Fatal("unrelated header should not appear")
	}
}

func TestResponseHeadersReset(t *testing.T) {
	h := NewResponseHeaders()
	h.Set(ResContentType, "text/plain")
	h.SetCustom("X-Foo", "bar")
	h.AppendSetCookie("a=1")

	h.Reset()
	if h.Size() != 0 {
		t.Fatalf("expected size 0 after Reset, got %d", h.Size())
	}
	if h.Has(ResContentType) {
		t.Fatal("expected no headers set after Reset")
	}
}

func TestRequestHeadersWellKnownAndCustom(t *testing.T) {
	var h RequestHeaders
	h.Set([]byte("Content-Type"), []byte("application/json"))
	h.Set([]byte("X-Custom"), []byte("value"))

	ct, ok := h.Get(ReqContentType)
	if !ok || string(ct) != "application/json" {
		t.Fatalf("Get(ReqContentType) = %q, %v", ct, ok)
	}
	if h.GetString(ReqContentType) != "application/json" {
		t.Fatalf("GetString mismatch: %q", h.GetString(ReqContentType))
	}

	custom, ok := h.GetCustom("X-Custom")
	if !ok || string(custom) != "value" {
		t.Fatalf("GetCustom = %q, %v", custom, ok)
	}

	h.Reset()
	if _, ok := h.Get(ReqContentType); ok {
		t.Fatal("expected header cleared after Reset")
	}
	if _, ok := h.GetCustom("X-Custom"); ok {
		t.Fatal("expected custom map cleared after Reset")
	}
}
