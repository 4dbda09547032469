// Package xmetrics 提供调用结果指标的输出端（sink）。
//
// # 设计理念
//
// 引擎只依赖最小接口 [Recorder]：每次调用结束写三个信号：
//
//   - Record：时点值（最近一次调用耗时，毫秒）
//   - Cumulative：累计计数（每次 +1）
//   - Timer：耗时分布（仅在耗时 > 0 时写入）
//
// 标签以 key/value 交替的 []string 传入，顺序稳定。
//
// # 实现
//
//   - [OTelRecorder]：OpenTelemetry，<name>.last（Gauge）/ <name>.total（Counter）/
//     <name>.duration（Histogram，单位 ms）
//   - [PrometheusRecorder]：client_golang，固定标签集合，名称中的 . 替换为 _
//   - [BreakerRecorder]：gobreaker 熔断包装，sink 持续失败时快速丢弃写入
//   - [Multi]：同时写入多个 Recorder
//   - [Noop]：丢弃所有写入
//
// # 使用示例
//
//	rec, _ := xmetrics.NewOTelRecorder(xmetrics.WithMeterProvider(mp))
//	rec = xmetrics.NewBreakerRecorder(rec)
//	_ = rec.Cumulative(ctx, "monilog.rpc_in", []string{"result", "success"}, 1)
package xmetrics
