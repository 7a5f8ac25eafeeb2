package binding

import (
	"strconv"
	"testing"

	"github.com/yourusername/levin/core"
)

func newContext() *core.Context {
	req := core.AcquireRequest()
	return &core.Context{Request: req, Response: core.NewResponse(200)}
}

func TestP0(t *testing.T) {
	h := P0(func(c *core.Context) core.Response {
		res := *core.NewResponse(200)
		res.SetText("ok")
		return res
	})
	c := newContext()
	h(c)
	if c.Response.Status != 200 || string(c.Response.Body()) != "ok" {
		t.Fatalf("unexpected response: %d %q", c.Response.Status, c.Response.Body())
	}
}

func TestP1ParsesParam(t *testing.T) {
	h := P1("id", func(s string) (int, error) { return strconv.Atoi(s) },
		func(c *core.Context, id int) core.Response {
			res := *core.NewResponse(200)
			res.SetText(strconv.Itoa(id * 2))
			return res
		})

	c := newContext()
	c.Request.SetParamCapture("id", []byte("21"))
	h(c)
	if string(c.Response.Body()) != "42" {
		t.Fatalf("got %q, want 42", c.Response.Body())
	}
}

func TestP1MissingParamIsBadRequest(t *testing.T) {
	h := P1("id", func(s string) (int, error) { return strconv.Atoi(s) },
		func(c *core.Context, id int) core.Response { return *core.NewResponse(200) })

	c := newContext()
	h(c)
	if c.Response.Status != 400 {
		t.Fatalf("status = %d, want 400", c.Response.Status)
	}
}

func TestP1ParseErrorIsBadRequest(t *testing.T) {
	h := P1("id", func(s string) (int, error) { return strconv.Atoi(s) },
		func(c *core.Context, id int) core.Response { return *core.NewResponse(200) })

	c := newContext()
	c.Request.SetParamCapture("id", []byte("not-a-number"))
	h(c)
	if c.Response.Status != 400 {
		t.Fatalf("status = %d, want 400", c.Response.Status)
	}
}

func TestP2(t *testing.T) {
	h := P2(
		"a", func(s string) (int, error) { return strconv.Atoi(s) },
		"b", func(s string) (int, error) { return strconv.Atoi(s) },
		func(c *core.Context, a, b int) core.Response {
			res := *core.NewResponse(200)
			res.SetText(strconv.Itoa(a + b))
			return res
		})

	c := newContext()
	c.Request.SetParamCapture("a", []byte("10"))
	c.Request.SetParamCapture("b", []byte("32"))
	h(c)
	if string(c.Response.Body()) != "42" {
		t.Fatalf("got %q, want 42", c.Response.Body())
	}
}

type createUser struct {
	Name string
}

func (u *createUser) ParsePayload(b []byte) error {
	u.Name = string(b)
	return nil
}

func (*createUser) MIME() string { return "text/plain" }

func TestItems1ParsesPayload(t *testing.T) {
	h := Items1[createUser](func(c *core.Context, u createUser) core.Response {
		res := *core.NewResponse(200)
		res.SetText(u.Name)
		return res
	})

	c := newContext()
	c.Request.Header.Set([]byte("Content-Type"), []byte("text/plain"))
	c.Request.Payload = []byte("alice")
	h(c)
	if string(c.Response.Body()) != "alice" {
		t.Fatalf("got %q, want alice", c.Response.Body())
	}
}

func TestItems1RejectsMismatchedMIME(t *testing.T) {
	h := Items1[createUser](func(c *core.Context, u createUser) core.Response {
		return *core.NewResponse(200)
	})

	c := newContext()
	c.Request.Header.Set([]byte("Content-Type"), []byte("application/json"))
	c.Request.Payload = []byte(`{"name":"alice"}`)
	h(c)
	if c.Response.Status != 415 {
		t.Fatalf("status = %d, want 415", c.Response.Status)
	}
}

type searchQuery struct {
	Term string
}

func (q *searchQuery) ParseQuery(query *core.Query) error {
	term, ok := query.Get("q")
	if !ok {
		return core.ErrBadRequest
	}
	q.Term = term
	return nil
}

func TestItemsQueryParsesQueryString(t *testing.T) {
	h := ItemsQuery[searchQuery](func(c *core.Context, q searchQuery) core.Response {
		res := *core.NewResponse(200)
		res.SetText(q.Term)
		return res
	})

	c := newContext()
	c.Request.SetRawQuery([]byte("q=levin"))
	h(c)
	if string(c.Response.Body()) != "levin" {
		t.Fatalf("got %q, want levin", c.Response.Body())
	}
}

func TestItemsQueryMissingFieldIsBadRequest(t *testing.T) {
	h := ItemsQuery[searchQuery](func(c *core.Context, q searchQuery) core.Response {
		return *core.NewResponse(200)
	})

	c := newContext()
	h(c)
	if c.Response.Status != 400 {
		t.Fatalf("status = %d, want 400", c.Response.Status)
	}
}

func TestMemoized(t *testing.T) {
	c := newContext()
	c.Set("count", 7)

	v, ok := Memoized[int](c, "count")
	if !ok || v != 7 {
		t.Fatalf("Memoized = %v, %v, want 7, true", v, ok)
	}

	_, ok = Memoized[string](c, "count")
	if ok {
		t.Fatal("expected type mismatch to report not-ok")
	}

	_, ok = Memoized[int](c, "missing")
	if ok {
		t.Fatal("expected missing key to report not-ok")
	}
}
