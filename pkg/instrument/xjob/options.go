package xjob

import "time"

// DefaultServiceType 默认的 service_type。
const DefaultServiceType = "cron"

// Option 配置任务观测。
type Option func(*options)

type options struct {
	serviceType string
	service     string
	timeout     time.Duration
	tags        []string
}

func applyOptions(opts []Option) *options {
	o := &options{serviceType: DefaultServiceType}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithServiceType 设置 service_type，空字符串被忽略。
func WithServiceType(t string) Option {
	return func(o *options) {
		if t != "" {
			o.serviceType = t
		}
	}
}

// WithService 设置 service 名，通常是任务所属的模块。
func WithService(name string) Option {
	return func(o *options) { o.service = name }
}

// WithTimeout 为 NewJob 的每次执行设置超时，<= 0 表示不限制。
// 对 Wrapper 无效，普通 cron.Job 不接收 context。
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithTags 为每次执行追加固定的 key/value 标签。
func WithTags(kv ...string) Option {
	return func(o *options) { o.tags = append(o.tags, kv...) }
}
