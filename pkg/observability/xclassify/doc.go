// Package xclassify 根据调用的返回值或错误给出成功/失败结论（Verdict）。
//
// # 结果分类
//
// [ResultClassifier] 按调用点的 [Policy] 选择策略：
//
//   - IfSuccess（默认）：用 [Rules] 中的布尔路径提取成功标志，
//     并独立提取 code/message（失败响应通常仍携带 code/message）
//   - IfNotNull：返回值非 nil 即成功
//   - IfNotEmpty：返回值非空即成功，见 [IsEmpty]
//   - IfNotException：未返回错误即成功
//
// 调用返回错误时一律交给 [ExceptionClassifier]，与策略无关。
//
// Policy.Explicit 区分"调用方显式选择了 IfSuccess"与"未配置、使用默认值"：
// 只有后者在提取不到布尔结果时自动退化为 IfNotException。
//
// # 错误分类
//
// [ExceptionClassifier] 将错误映射为 PARAM_ERROR、UNKNOWN_HOST、
// SERVICE_TIMEOUT、SYSTEM_ERROR 之一。分类前先剥离 [PanicError] 等调用包装层。
// 超时除了匹配 context.DeadlineExceeded、net.Error 等显式类型外，
// 还会对"类型名+消息"做 timeout / timed out 文本匹配，沿 cause 链向下检查。
package xclassify
