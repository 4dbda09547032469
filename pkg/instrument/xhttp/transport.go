package xhttp

import (
	"net/http"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/xixiU/monilog-sub001/pkg/observability/xclassify"
	"github.com/xixiU/monilog-sub001/pkg/observability/xoutcome"
)

// Transport 是记录出站请求的 http.RoundTripper（client_out）。
//
// 耗时截止到收到响应头，不包含读取响应体。
type Transport struct {
	base      http.RoundTripper
	completer xoutcome.Completer
	opts      *options
}

// NewTransport 包装 base，nil 时使用 http.DefaultTransport。
func NewTransport(c xoutcome.Completer, base http.RoundTripper, opts ...Option) *Transport {
	if c == nil {
		panic("xhttp: NewTransport requires a non-nil Completer")
	}
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, completer: c, opts: applyOptions(opts)}
}

// RoundTrip 实现 http.RoundTripper。
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.opts.skip(req) {
		return t.base.RoundTrip(req)
	}

	req = t.inject(req)
	outcome := xoutcome.Begin(xoutcome.KindClientOut, t.opts.serviceType, t.service(req), t.action(req)).
		AddTags(t.opts.tags(req)...)
	if t.opts.input {
		outcome.SetInput(req.URL.String())
	}

	defer func() {
		if rec := recover(); rec != nil {
			outcome.Finish(nil, xclassify.NewPanicError(rec))
			t.completer.Complete(req.Context(), outcome)
			panic(rec)
		}
	}()

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		outcome.Finish(nil, err)
	} else {
		outcome.Finish(StatusOf(resp.StatusCode), nil)
	}
	t.completer.Complete(req.Context(), outcome)
	return resp, err
}

// inject 把当前链路上下文写入请求头。RoundTripper 不能修改入参，因此先克隆请求。
func (t *Transport) inject(req *http.Request) *http.Request {
	if t.opts.propagator == nil || !trace.SpanContextFromContext(req.Context()).IsValid() {
		return req
	}
	out := req.Clone(req.Context())
	t.opts.propagator.Inject(out.Context(), propagation.HeaderCarrier(out.Header))
	return out
}

func (t *Transport) service(req *http.Request) string {
	if t.opts.service != "" {
		return t.opts.service
	}
	return req.URL.Hostname()
}

func (t *Transport) action(req *http.Request) string {
	if t.opts.actionFunc != nil {
		return t.opts.actionFunc(req)
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	return method + " " + req.URL.Path
}

var _ http.RoundTripper = (*Transport)(nil)
