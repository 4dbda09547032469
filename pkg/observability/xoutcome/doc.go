// Package xoutcome 是调用结果分类与指标标签引擎。
//
// 适配器在调用边界构造 [CallOutcome]，交给 [Engine.Complete]：
//
//	o := xoutcome.Begin(xoutcome.KindClientOut, "http", "user-api", "GET /users")
//	resp, err := call()
//	engine.Complete(ctx, o.Finish(resp, err))
//
// Complete 依次执行：
//
//  1. 解析调用点（[SiteRule] 第一条命中，未命中用全局配置），结果缓存在 [ResolutionCache]
//  2. 分类得到 Verdict（xclassify）
//  3. 对动态标签求值，由 [TagBuilder] 构建稳定顺序的标签
//  4. [Emitter] 写出 record、cumulative、timer 三个信号，指标名为 前缀+入口类型
//  5. 经过日志过滤与成功日志采样后写结构化日志，入参出参序列化并截断
//
// # 失败隔离
//
// 指标写入失败只记录日志，不重试；Complete 内部的 panic 被恢复。
// 引擎不会改变被测调用的结果。
//
// # 配置
//
// [Settings] 通过 [Engine.Apply] 整体替换，配置编译失败时保留旧配置。
// 未显式配置策略（Strategy 为空）时，IfSuccess 提取不到布尔值会自动退化为 IfNotException；
// 显式配置 if_success 则判为失败。
package xoutcome
