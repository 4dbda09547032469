package xmetrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerOption 定义 BreakerRecorder 的配置选项。
type BreakerOption func(*gobreaker.Settings)

// WithFailureThreshold 连续失败多少次后打开熔断器，默认 5。
func WithFailureThreshold(n uint32) BreakerOption {
	return func(st *gobreaker.Settings) {
		if n > 0 {
			st.ReadyToTrip = func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= n
			}
		}
	}
}

// WithOpenTimeout 熔断器打开后多久进入半开状态，默认 30s。
func WithOpenTimeout(d time.Duration) BreakerOption {
	return func(st *gobreaker.Settings) {
		if d > 0 {
			st.Timeout = d
		}
	}
}

// WithStateChange 设置状态变化回调。
func WithStateChange(fn func(name string, from, to gobreaker.State)) BreakerOption {
	return func(st *gobreaker.Settings) {
		st.OnStateChange = fn
	}
}

// BreakerRecorder 用熔断器包装另一个 Recorder。
//
// 下游 sink 连续失败达到阈值后，后续写入直接返回 ErrSinkOpen，
// 避免在 sink 故障期间反复付出失败写入的开销。三种信号共用一个熔断器。
// 下游 panic 计为失败并继续向上传播，由调用方隔离。
type BreakerRecorder struct {
	next Recorder
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerRecorder 创建熔断包装。next 为 nil 返回 ErrNilRecorder。
func NewBreakerRecorder(next Recorder, opts ...BreakerOption) (*BreakerRecorder, error) {
	if next == nil {
		return nil, ErrNilRecorder
	}
	st := gobreaker.Settings{
		Name:    "xmetrics.sink",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&st)
		}
	}
	return &BreakerRecorder{next: next, cb: gobreaker.NewCircuitBreaker[struct{}](st)}, nil
}

// State 返回熔断器当前状态。
func (b *BreakerRecorder) State() gobreaker.State {
	return b.cb.State()
}

// Record 经熔断器转发，熔断打开时返回 ErrSinkOpen。
func (b *BreakerRecorder) Record(ctx context.Context, name string, tags []string, value int64) error {
	return b.do(func() error { return b.next.Record(ctx, name, tags, value) })
}

// Cumulative 经熔断器转发。
func (b *BreakerRecorder) Cumulative(ctx context.Context, name string, tags []string, delta int64) error {
	return b.do(func() error { return b.next.Cumulative(ctx, name, tags, delta) })
}

// Timer 经熔断器转发。
func (b *BreakerRecorder) Timer(ctx context.Context, name string, tags []string, costMillis int64) error {
	return b.do(func() error { return b.next.Timer(ctx, name, tags, costMillis) })
}

func (b *BreakerRecorder) do(fn func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrSinkOpen, err)
	}
	return err
}

var _ Recorder = (*BreakerRecorder)(nil)
