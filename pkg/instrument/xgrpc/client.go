package xgrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/xixiU/monilog-sub001/pkg/observability/xoutcome"
)

// UnaryClientInterceptor 创建记录出站一元调用的拦截器。
// invoker 填充后的 reply 作为返回值参与分类。
func UnaryClientInterceptor(c xoutcome.Completer, opts ...Option) grpc.UnaryClientInterceptor {
	if c == nil {
		panic("xgrpc: UnaryClientInterceptor requires a non-nil Completer")
	}
	o := applyOptions(opts)

	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, callOpts ...grpc.CallOption) (err error) {
		if o.skip(ctx, method) {
			return invoker(ctx, method, req, reply, cc, callOpts...)
		}

		ctx = o.inject(ctx)
		md, _ := metadata.FromOutgoingContext(ctx)
		outcome := o.begin(ctx, xoutcome.KindClientOut, method, md)
		if o.input {
			outcome.SetInput(req)
		}
		result := reply
		defer finish(ctx, c, outcome, &result, &err)

		return invoker(ctx, method, req, reply, cc, callOpts...)
	}
}
