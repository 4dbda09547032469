package xmetrics

import (
	"context"
	"errors"
)

// 指标后缀。
const (
	SuffixLast     = ".last"
	SuffixTotal    = ".total"
	SuffixDuration = ".duration"
)

//go:generate mockgen -source=recorder.go -destination=mock_recorder.go -package=xmetrics Recorder

// Recorder 是指标输出端。
//
// name 为指标基础名（如 monilog.rpc_in），tags 为 key/value 交替的标签。
// 实现必须可并发调用；返回的错误由调用方记录后丢弃，不会重试。
type Recorder interface {
	// Record 写入时点值。
	Record(ctx context.Context, name string, tags []string, value int64) error
	// Cumulative 累加计数。
	Cumulative(ctx context.Context, name string, tags []string, delta int64) error
	// Timer 记录一次耗时（毫秒）。
	Timer(ctx context.Context, name string, tags []string, costMillis int64) error
}

// Noop 丢弃所有写入。
type Noop struct{}

// Record 什么也不做。
func (Noop) Record(context.Context, string, []string, int64) error { return nil }

// Cumulative 什么也不做。
func (Noop) Cumulative(context.Context, string, []string, int64) error { return nil }

// Timer 什么也不做。
func (Noop) Timer(context.Context, string, []string, int64) error { return nil }

// Multi 将写入分发到多个 Recorder，各自的错误合并返回。
type Multi []Recorder

// Record 依次写入每个 Recorder，单个失败不影响其余。
func (m Multi) Record(ctx context.Context, name string, tags []string, value int64) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Record(ctx, name, tags, value))
	}
	return errors.Join(errs...)
}

// Cumulative 依次累加每个 Recorder。
func (m Multi) Cumulative(ctx context.Context, name string, tags []string, delta int64) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Cumulative(ctx, name, tags, delta))
	}
	return errors.Join(errs...)
}

// Timer 依次记录每个 Recorder 的耗时。
func (m Multi) Timer(ctx context.Context, name string, tags []string, costMillis int64) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Timer(ctx, name, tags, costMillis))
	}
	return errors.Join(errs...)
}

var (
	_ Recorder = Noop{}
	_ Recorder = Multi(nil)
)
