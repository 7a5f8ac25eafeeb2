package core

import "testing"

func TestResponseCompleteSetsContentLengthAndDate(t *testing.T) {
	r := NewResponse(200)
	r.SetText("hello")
	r.Complete("Wed, 21 Oct 2026 07:28:00 GMT")

	cl, ok := r.Header.Get(ResContentLength)
	if !ok || cl != "5" {
		t.Fatalf("Content-Length = %q, %v, want 5", cl, ok)
	}
	date, ok := r.Header.Get(ResDate)
	if !ok || date == "" {
		t.Fatal("expected Date to be set")
	}
}

func TestResponseCompleteDoesNotOverrideExplicitDate(t *testing.T) {
	r := NewResponse(200)
	r.SetText("hi")
	r.WithHeader(ResDate, "explicit")
	r.Complete("computed")

	date, _ := r.Header.Get(ResDate)
	if date != "explicit" {
		t.Fatalf("Date = %q, want explicit value preserved", date)
	}
}

func TestResponseCompleteSkipsContentLengthForSSE(t *testing.T) {
	r := NewResponse(200)
	r.SetSSE(func(yield func([]byte) bool) {})
	r.Complete("now")

	if r.Header.Has(ResContentLength) {
		t.Fatal("SSE responses must not carry Content-Length")
	}
}

func TestResponseCompleteOmitsContentLengthFor204(t *testing.T) {
	r := NewResponse(204)
	r.Complete("now")

	if r.Header.Has(ResContentLength) {
		t.Fatal("204 responses must not carry Content-Length")
	}
}

func TestResponseClearBodyKeepHeaders(t *testing.T) {
	r := NewResponse(200)
	r.SetJSON(map[string]int{"a": 1})
	r.WithHeader(ResContentType, "application/json")
	r.Complete("now")

	r.ClearBodyKeepHeaders()

	if len(r.Body()) != 0 {
		t.Fatal("expected body cleared")
	}
	if r.Header.Has(ResContentLength) {
		t.Fatal("expected Content-Length removed")
	}
	if !r.Header.Has(ResContentType) {
		t.Fatal("expected unrelated headers to survive")
	}
}

func TestResponseReset(t *testing.T) {
	r := NewResponse(200)
	r.SetText("hi")
	r.Reset()

	if r.Status != 0 {
		t.Fatalf("expected Status reset to 0, got %d", r.Status)
	}
	if len(r.Body()) != 0 {
		t.Fatal("expected body cleared by Reset")
	}
	if r.IsSSE() {
		t.Fatal("expected SSE flag cleared by Reset")
	}
}
