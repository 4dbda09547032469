package xgrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/xixiU/monilog-sub001/pkg/observability/xclassify"
	"github.com/xixiU/monilog-sub001/pkg/observability/xoutcome"
)

// UnaryServerInterceptor 创建记录入站一元调用的拦截器。
// 响应消息作为返回值参与分类。
func UnaryServerInterceptor(c xoutcome.Completer, opts ...Option) grpc.UnaryServerInterceptor {
	if c == nil {
		panic("xgrpc: UnaryServerInterceptor requires a non-nil Completer")
	}
	o := applyOptions(opts)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		fullMethod := methodOf(info)
		if o.skip(ctx, fullMethod) {
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		ctx, _ = o.extract(ctx, md)
		outcome := o.begin(ctx, xoutcome.KindRPCIn, fullMethod, md)
		if o.input {
			outcome.SetInput(req)
		}
		defer finish(ctx, c, outcome, &resp, &err)

		return handler(ctx, req)
	}
}

// StreamServerInterceptor 创建记录入站流式调用的拦截器。
// 整个流作为一次调用，流结束时的错误参与分类。
func StreamServerInterceptor(c xoutcome.Completer, opts ...Option) grpc.StreamServerInterceptor {
	if c == nil {
		panic("xgrpc: StreamServerInterceptor requires a non-nil Completer")
	}
	o := applyOptions(opts)

	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		ctx := ss.Context()
		fullMethod := ""
		if info != nil {
			fullMethod = info.FullMethod
		}
		if o.skip(ctx, fullMethod) {
			return handler(srv, ss)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		if traced, ok := o.extract(ctx, md); ok {
			ctx = traced
			ss = &tracedStream{ServerStream: ss, ctx: ctx}
		}
		outcome := o.begin(ctx, xoutcome.KindRPCIn, fullMethod, md)
		var resp any
		defer finish(ctx, c, outcome, &resp, &err)

		return handler(srv, ss)
	}
}

// finish 在 defer 中结算调用。handler panic 时以 PanicError 结算后重新 panic。
func finish(ctx context.Context, c xoutcome.Completer, outcome *xoutcome.CallOutcome, resp *any, err *error) {
	if rec := recover(); rec != nil {
		outcome.Finish(nil, xclassify.NewPanicError(rec))
		c.Complete(ctx, outcome)
		panic(rec)
	}
	outcome.Finish(*resp, *err)
	c.Complete(ctx, outcome)
}

// tracedStream 替换流的 context，使 handler 看到提取出的链路上下文。
type tracedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *tracedStream) Context() context.Context { return s.ctx }

func methodOf(info *grpc.UnaryServerInfo) string {
	if info == nil {
		return ""
	}
	return info.FullMethod
}
