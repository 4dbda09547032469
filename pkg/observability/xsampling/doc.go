// Package xsampling 提供调用结果日志的采样策略。
//
// 失败调用的日志总是输出；成功调用的日志可以按比率采样以控制日志量。
//
//   - [Always]、[Never]：常量策略
//   - [NewKeyBasedSampler]：按 key（通常是 trace id）做一致性采样，使用 xxhash
//   - [ForRate]：按比率在以上三者中选择
//
// 一致性采样让同一条链路在所有服务中得到相同决策：
// 同一 trace 的成功日志要么全部保留，要么全部跳过。
// key 为空时回退到随机采样，保持近似比率。
package xsampling
