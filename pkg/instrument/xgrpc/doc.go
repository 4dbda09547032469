// Package xgrpc 提供记录 gRPC 调用结果的拦截器。
//
//   - [UnaryServerInterceptor]：入站一元调用（rpc_in）
//   - [StreamServerInterceptor]：入站流式调用（rpc_in），整个流作为一次调用
//   - [UnaryClientInterceptor]：出站一元调用（client_out）
//
// service 与 action 从完整方法名 "/pkg.Service/Method" 拆分得到。
// 返回的 status 错误参与错误分类：InvalidArgument 归为 PARAM_ERROR，
// DeadlineExceeded 归为 SERVICE_TIMEOUT。
//
// 用法：
//
//	srv := grpc.NewServer(
//	    grpc.ChainUnaryInterceptor(xgrpc.UnaryServerInterceptor(engine)),
//	    grpc.ChainStreamInterceptor(xgrpc.StreamServerInterceptor(engine)),
//	)
//	conn, _ := grpc.NewClient(target,
//	    grpc.WithUnaryInterceptor(xgrpc.UnaryClientInterceptor(engine)))
package xgrpc
