package xmetrics

import "errors"

var (
	// ErrCreateInstrument 表示创建 OTel instrument 失败。
	ErrCreateInstrument = errors.New("xmetrics: create instrument failed")
	// ErrRegister 表示注册 Prometheus collector 失败。
	ErrRegister = errors.New("xmetrics: register collector failed")
	// ErrInvalidBuckets 表示 Histogram 桶边界配置无效。
	ErrInvalidBuckets = errors.New("xmetrics: invalid histogram buckets")
	// ErrOddTags 表示标签列表长度不是偶数。
	ErrOddTags = errors.New("xmetrics: tags must be key/value pairs")
	// ErrSinkOpen 表示熔断器处于打开状态，本次写入被丢弃。
	ErrSinkOpen = errors.New("xmetrics: sink circuit open")
	// ErrNilRecorder 表示传入了 nil Recorder。
	ErrNilRecorder = errors.New("xmetrics: nil recorder")
)
