// Package xlog 基于 log/slog 的结构化日志库。
//
// # 核心功能
//
//   - Builder 模式配置（输出目标、级别、格式、文件轮转、固定属性）
//   - 自动从 context 中的 OpenTelemetry span 注入 trace_id、span_id（EnrichHandler，默认启用）
//   - 动态级别调整（运行时热更新）
//   - 全局 Logger 便利函数
//   - 延迟求值（[Lazy]、[LazyString]）
//   - 调用结果日志的字段（[Kind]、[Service]、[Action]、[Code]、[CostMillis]、[Tags] 等）
//
// # 创建 Logger
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("info").
//		SetFormat("json").
//		SetRotation("/var/log/app/monilog.log", xlog.WithMaxBackups(7)).
//		SetAttrs(xlog.App("order"), xlog.Env("prod")).
//		Build()
//	defer cleanup()
//
// 文件轮转使用 lumberjack，按大小切分。
//
// # 日志级别
//
// LevelDebug(-4)、LevelInfo(0)、LevelWarn(4)、LevelError(8)。
// Level 实现 encoding.TextMarshaler/TextUnmarshaler，可直接用于配置文件。
package xlog
