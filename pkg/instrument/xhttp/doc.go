// Package xhttp 为 net/http 提供调用结果观测：
// 服务端中间件记录入站请求（web_in），客户端 RoundTripper 记录出站请求（client_out）。
//
// 两者只负责构造 [xoutcome.CallOutcome] 并交给 [xoutcome.Completer] 结算，
// 分类、标签、指标与日志都由引擎完成。
//
// 响应体在中间件看到时已经写出，因此参与分类的返回值是 [Status]：
//
//	{"success": status < 400, "code": status, "message": http.StatusText(status)}
//
// 默认路径规则据此得到 success 与 code。需要按业务字段分类时，
// 在业务代码中自行构造 CallOutcome。
//
// 基本用法：
//
//	engine, _ := xoutcome.New(xoutcome.WithSettings(s))
//	mux := http.NewServeMux()
//	mux.HandleFunc("GET /users/{id}", getUser)
//	srv := &http.Server{Handler: xhttp.Middleware(engine, xhttp.WithService("user-api"))(mux)}
//
//	client := &http.Client{Transport: xhttp.NewTransport(engine, nil)}
//
// 被观测的 handler 发生 panic 时，调用以 *xclassify.PanicError 结算后原样重新 panic。
package xhttp
