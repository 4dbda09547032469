package xsampling

import "context"

// Sampler 决定一条成功调用日志是否输出。
//
// 返回 true 表示采样（输出），false 表示跳过。实现必须并发安全。
type Sampler interface {
	ShouldSample(ctx context.Context) bool
}

type constSampler bool

func (s constSampler) ShouldSample(context.Context) bool { return bool(s) }

// Always 全采样。
func Always() Sampler { return constSampler(true) }

// Never 不采样。
func Never() Sampler { return constSampler(false) }

// ForRate 按比率选择采样器：rate >= 1 为 Always，rate <= 0 为 Never，
// 其余为以 keyFunc 为 key 的 KeyBasedSampler。
func ForRate(rate float64, keyFunc KeyFunc) (Sampler, error) {
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	switch {
	case rate >= 1:
		return Always(), nil
	case rate <= 0:
		return Never(), nil
	}
	return NewKeyBasedSampler(rate, keyFunc)
}
