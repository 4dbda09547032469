// Package observability 是调用结果分类与指标打标引擎的核心子包集合。
//
// 子包列表：
//   - xpath: 路径表达式解析与求值，从任意返回值中提取字段或访问器结果
//   - xclassify: 结果分类策略与错误分类，产出 Verdict
//   - xoutcome: 调用记录、调用点规则、标签构建与 Engine 编排
//   - xmetrics: 指标写入接口及 OTel、Prometheus、熔断保护实现
//   - xlog: 结构化日志，基于 log/slog 扩展，支持 trace 信息注入与文件轮转
//   - xsampling: 成功日志采样
//
// 典型链路：适配器（pkg/instrument）构造 CallOutcome，
// 交给 xoutcome.Engine 分类、打标、写指标和日志。
package observability
