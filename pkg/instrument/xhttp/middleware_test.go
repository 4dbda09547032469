package xhttp_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xixiU/monilog-sub001/pkg/instrument/xhttp"
	"github.com/xixiU/monilog-sub001/pkg/observability/xclassify"
	"github.com/xixiU/monilog-sub001/pkg/observability/xoutcome"
)

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestMiddleware_Success(t *testing.T) {
	c := newCapture(t)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"` + r.PathValue("id") + `"}`))
	})

	rr := serve(xhttp.Middleware(c)(mux), http.MethodGet, "/users/7?full=1")
	assert.Equal(t, http.StatusOK, rr.Code)

	o, v := c.last(t)
	assert.Equal(t, xoutcome.KindWebIn, o.Kind())
	assert.Equal(t, xhttp.DefaultServiceType, o.ServiceType())
	assert.Equal(t, "example.com", o.Service())
	assert.Equal(t, "GET /users/{id}", o.Action())
	assert.Equal(t, []any{"/users/7?full=1"}, o.Input())
	assert.GreaterOrEqual(t, o.CostMillis(), int64(0))

	assert.True(t, v.Success)
	assert.Equal(t, "200", v.Code)
	assert.Equal(t, "OK", v.Message)
}

func TestMiddleware_ErrorStatus(t *testing.T) {
	c := newCapture(t)
	h := xhttp.Middleware(c, xhttp.WithService("user-api"))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.WriteHeader(http.StatusOK)
	}))

	serve(h, http.MethodPost, "/orders")

	o, v := c.last(t)
	assert.Equal(t, "user-api", o.Service())
	assert.Equal(t, "POST /orders", o.Action(), "no mux pattern falls back to method and path")
	assert.False(t, v.Success)
	assert.Equal(t, "503", v.Code, "first status wins")
	assert.Equal(t, "Service Unavailable", v.Message)
}

func TestMiddleware_PatternWithoutMethod(t *testing.T) {
	c := newCapture(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/static/", func(http.ResponseWriter, *http.Request) {})

	serve(xhttp.Middleware(c)(mux), http.MethodHead, "/static/app.js")

	o, v := c.last(t)
	assert.Equal(t, "HEAD /static/", o.Action())
	assert.True(t, v.Success, "handler that writes nothing is a 200")
}

func TestMiddleware_PanicIsRecordedAndRethrown(t *testing.T) {
	c := newCapture(t)
	cause := errors.New("nil map write")
	h := xhttp.Middleware(c)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(cause)
	}))

	assert.PanicsWithValue(t, cause, func() { serve(h, http.MethodGet, "/boom") })

	o, v := c.last(t)
	var pe *xclassify.PanicError
	require.ErrorAs(t, o.Err(), &pe)
	assert.Equal(t, cause, pe.Value)
	assert.False(t, v.Success)
	assert.Equal(t, xclassify.CodeSystemError, v.Code)
	assert.Equal(t, "nil map write", v.Message, "panic value error is classified directly")
}

func TestMiddleware_Options(t *testing.T) {
	c := newCapture(t)
	h := xhttp.Middleware(c,
		xhttp.WithServiceType("gateway"),
		xhttp.WithActionFunc(func(r *http.Request) string { return "route:" + r.URL.Path }),
		xhttp.WithTagFunc(func(r *http.Request) []string { return []string{"tenant", r.Header.Get("X-Tenant")} }),
		xhttp.WithInputSnapshot(false),
		xhttp.WithSkipFunc(func(r *http.Request) bool { return r.URL.Path == "/healthz" }),
		nil,
	)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	serve(h, http.MethodGet, "/healthz")
	assert.Zero(t, c.count(), "skipped request is not observed")

	req := httptest.NewRequest(http.MethodGet, "/pay", nil)
	req.Header.Set("X-Tenant", "t1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	o, _ := c.last(t)
	assert.Equal(t, "gateway", o.ServiceType())
	assert.Equal(t, "route:/pay", o.Action())
	assert.Equal(t, []string{"tenant", "t1"}, o.Tags())
	assert.Nil(t, o.Input())
}

func TestMiddleware_HostPortStripped(t *testing.T) {
	c := newCapture(t)
	h := xhttp.Middleware(c)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "http://api.local:8080/x", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	o, _ := c.last(t)
	assert.Equal(t, "api.local", o.Service())
}

func TestMiddleware_FlushPassesThrough(t *testing.T) {
	c := newCapture(t)
	h := xhttp.Middleware(c)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, http.NewResponseController(w).Flush())
	}))

	rr := serve(h, http.MethodGet, "/stream")
	assert.True(t, rr.Flushed)
	_, v := c.last(t)
	assert.True(t, v.Success)
}

func TestMiddleware_HijackerPassesThrough(t *testing.T) {
	c := newCapture(t)
	var hijackable atomic.Bool
	h := xhttp.Middleware(c)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hj, ok := w.(http.Hijacker)
		hijackable.Store(ok)
		if !ok {
			http.Error(w, "hijack unsupported", http.StatusInternalServerError)
			return
		}
		conn, brw, err := hj.Hijack()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = brw.WriteString("HTTP/1.1 200 OK\r\nContent-Length: 2\r\nConnection: close\r\n\r\nhi")
		_ = brw.Flush()
	}))
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/ws")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)

	assert.True(t, hijackable.Load(), "handler behind the middleware sees http.Hijacker")
	assert.Equal(t, "hi", string(body))

	require.Eventually(t, func() bool { return c.count() == 1 }, time.Second, 5*time.Millisecond)
	_, v := c.last(t)
	assert.True(t, v.Success)
	assert.Equal(t, "101", v.Code, "hijacked connection is recorded as switching protocols")
}

func TestMiddleware_ReaderFromPassesThrough(t *testing.T) {
	c := newCapture(t)
	var readerFrom atomic.Bool
	h := xhttp.Middleware(c)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		rf, ok := w.(io.ReaderFrom)
		readerFrom.Store(ok)
		if !ok {
			_, _ = io.Copy(w, strings.NewReader("payload"))
			return
		}
		_, _ = rf.ReadFrom(strings.NewReader("payload"))
	}))
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/file")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)

	assert.True(t, readerFrom.Load())
	assert.Equal(t, "payload", string(body))

	require.Eventually(t, func() bool { return c.count() == 1 }, time.Second, 5*time.Millisecond)
	_, v := c.last(t)
	assert.Equal(t, "200", v.Code)
}

func TestMiddleware_DoesNotAddInterfaces(t *testing.T) {
	c := newCapture(t)
	var hijackable atomic.Bool
	h := xhttp.Middleware(c)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, ok := w.(http.Hijacker)
		hijackable.Store(ok)
	}))

	serve(h, http.MethodGet, "/plain")
	assert.False(t, hijackable.Load(), "ResponseRecorder cannot hijack, neither can its wrapper")
}

func TestMiddlewareFunc(t *testing.T) {
	c := newCapture(t)
	h := xhttp.MiddlewareFunc(c)(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	})

	serve(h, http.MethodGet, "/bad")
	_, v := c.last(t)
	assert.False(t, v.Success)
	assert.Equal(t, "400", v.Code)
}

func TestMiddleware_NilCompleterPanics(t *testing.T) {
	assert.Panics(t, func() { xhttp.Middleware(nil) })
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, xhttp.Status{Success: true, Code: 204, Message: "No Content"}, xhttp.StatusOf(204))
	assert.False(t, xhttp.StatusOf(404).Success)
	assert.False(t, xhttp.StatusOf(0).Success)
}
