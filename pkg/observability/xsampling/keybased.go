package xsampling

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// KeyFunc 从 context 提取采样 key（通常是 trace id）。
// 相同 key 总是得到相同的采样决策；返回空字符串时回退到随机采样。
type KeyFunc func(ctx context.Context) string

// KeyBasedOption 配置 KeyBasedSampler。
type KeyBasedOption func(*KeyBasedSampler)

// WithOnEmptyKey 设置空 key 回调，用于发现上下文传播断裂。nil 被忽略。
// 回调在采样热路径上执行，应当轻量。
func WithOnEmptyKey(fn func()) KeyBasedOption {
	return func(s *KeyBasedSampler) {
		if fn != nil {
			s.onEmptyKey = fn
		}
	}
}

// KeyBasedSampler 基于 key 的一致性采样。
//
// xxhash 是确定性的，同一 trace 的所有调用记录在所有进程中得到一致的决策，
// 一条链路的成功日志要么都输出，要么都跳过。
type KeyBasedSampler struct {
	rate       float64
	keyFunc    KeyFunc
	onEmptyKey func()
}

// NewKeyBasedSampler 创建一致性采样器。
//
// rate 超出 [0,1] 或为 NaN 返回 ErrInvalidRate；keyFunc 为 nil 返回 ErrNilKeyFunc；
// nil option 返回 ErrNilOption。
func NewKeyBasedSampler(rate float64, keyFunc KeyFunc, opts ...KeyBasedOption) (*KeyBasedSampler, error) {
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	if keyFunc == nil {
		return nil, ErrNilKeyFunc
	}
	s := &KeyBasedSampler{rate: rate, keyFunc: keyFunc}
	for _, opt := range opts {
		if opt == nil {
			return nil, ErrNilOption
		}
		opt(s)
	}
	return s, nil
}

// ShouldSample 按 key 的哈希决定是否采样，同一 key 结果恒定。
func (s *KeyBasedSampler) ShouldSample(ctx context.Context) bool {
	if s.rate <= 0 {
		return false
	}
	if s.rate >= 1 {
		return true
	}
	var key string
	if ctx != nil {
		key = s.keyFunc(ctx)
	}
	if key == "" {
		if s.onEmptyKey != nil {
			s.onEmptyKey()
		}
		return rand.Float64() < s.rate
	}
	return KeyFraction(key) < s.rate
}

// Rate 返回采样比率。
func (s *KeyBasedSampler) Rate() float64 {
	return s.rate
}

// KeyFraction 将 key 的 xxhash 归一化到 [0,1]。
//
// float64 精度有限，hash 为 MaxUint64 时结果可能等于 1.0；
// rate < 1 时 1.0 不会通过 < rate 的判断。
func KeyFraction(key string) float64 {
	return float64(xxhash.Sum64String(key)) / float64(math.MaxUint64)
}

func validateRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return ErrInvalidRate
	}
	return nil
}

var _ Sampler = (*KeyBasedSampler)(nil)
