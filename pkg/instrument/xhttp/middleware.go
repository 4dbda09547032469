package xhttp

import (
	"bufio"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/felixge/httpsnoop"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/xixiU/monilog-sub001/pkg/observability/xclassify"
	"github.com/xixiU/monilog-sub001/pkg/observability/xoutcome"
)

// Middleware 创建记录入站请求的中间件（web_in）。
//
// 耗时从进入中间件开始计算，到 handler 返回为止。
// action 在 handler 返回后提取，因此能拿到内层 ServeMux 匹配的路由模式。
//
// 示例:
//
//	handler := xhttp.Middleware(engine, xhttp.WithService("user-api"))(mux)
func Middleware(c xoutcome.Completer, opts ...Option) func(http.Handler) http.Handler {
	if c == nil {
		panic("xhttp: Middleware requires a non-nil Completer")
	}
	o := applyOptions(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if o.skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			r = o.extract(r)
			sw := &statusRecorder{}
			start := time.Now()
			defer func() {
				rec := recover()
				outcome := o.serverOutcome(r, start)
				if rec != nil {
					outcome.Finish(nil, xclassify.NewPanicError(rec))
				} else {
					outcome.Finish(StatusOf(sw.Status()), nil)
				}
				c.Complete(r.Context(), outcome)
				if rec != nil {
					panic(rec)
				}
			}()
			next.ServeHTTP(sw.wrap(w), r)
		})
	}
}

// MiddlewareFunc 是 Middleware 的 http.HandlerFunc 版本。
func MiddlewareFunc(c xoutcome.Completer, opts ...Option) func(http.HandlerFunc) http.HandlerFunc {
	middleware := Middleware(c, opts...)
	return func(next http.HandlerFunc) http.HandlerFunc {
		return middleware(next).ServeHTTP
	}
}

func (o *options) serverOutcome(r *http.Request, start time.Time) *xoutcome.CallOutcome {
	service := o.service
	if service == "" {
		service = stripPort(r.Host)
	}
	action := serverAction(r)
	if o.actionFunc != nil {
		action = o.actionFunc(r)
	}
	outcome := xoutcome.NewOutcome(xoutcome.KindWebIn, o.serviceType, service, action).
		SetCost(time.Since(start).Milliseconds()).
		AddTags(o.tags(r)...)
	if o.input {
		outcome.SetInput(r.URL.RequestURI())
	}
	return outcome
}

// extract 在上游未建立 span 时从请求头恢复远端链路上下文，
// 日志中的 trace_id 与按 trace 采样因此跨服务一致。
func (o *options) extract(r *http.Request) *http.Request {
	if o.propagator == nil || trace.SpanContextFromContext(r.Context()).IsValid() {
		return r
	}
	ctx := o.propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	return r.WithContext(ctx)
}

// serverAction 优先使用 ServeMux 写回的路由模式，模式不含方法时补上请求方法。
func serverAction(r *http.Request) string {
	switch {
	case r.Pattern == "":
		return r.Method + " " + r.URL.Path
	case strings.HasPrefix(r.Pattern, "/"):
		return r.Method + " " + r.Pattern
	default:
		return r.Pattern
	}
}

func stripPort(hostport string) string {
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return host
	}
	return hostport
}

// statusRecorder 记录 handler 写出的状态码。
//
// 包装由 httpsnoop 生成，只暴露底层 ResponseWriter 实际实现的可选接口
// （http.Flusher、http.Hijacker、io.ReaderFrom、http.Pusher），
// 因此 handler 的类型断言结果与未经中间件时一致。
type statusRecorder struct {
	status int
}

func (s *statusRecorder) wrap(w http.ResponseWriter) http.ResponseWriter {
	return httpsnoop.Wrap(w, httpsnoop.Hooks{
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				if s.status == 0 && code >= http.StatusOK {
					s.status = code
				}
				next(code)
			}
		},
		Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return func(b []byte) (int, error) {
				s.implicitOK()
				return next(b)
			}
		},
		ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
			return func(src io.Reader) (int64, error) {
				s.implicitOK()
				return next(src)
			}
		},
		Flush: func(next httpsnoop.FlushFunc) httpsnoop.FlushFunc {
			return func() {
				s.implicitOK()
				next()
			}
		},
		Hijack: func(next httpsnoop.HijackFunc) httpsnoop.HijackFunc {
			return func() (net.Conn, *bufio.ReadWriter, error) {
				conn, rw, err := next()
				if err == nil && s.status == 0 {
					s.status = http.StatusSwitchingProtocols
				}
				return conn, rw, err
			}
		},
	})
}

func (s *statusRecorder) implicitOK() {
	if s.status == 0 {
		s.status = http.StatusOK
	}
}

// Status 返回最终状态码，handler 未写任何内容时为 200，连接被接管时为 101。
func (s *statusRecorder) Status() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}
