package xconf

import "os"

// 环境变量覆盖。
const (
	EnvApp = "MONILOG_APP"
	EnvEnv = "MONILOG_ENV"
)

// Options 配置加载选项。
type Options struct {
	// Delim 配置键的分隔符，默认为 "."。
	Delim string
	// Tag 结构体标签名，默认为 "koanf"。
	Tag string
	// Prefix 配置在文件中的路径，为空表示整个文件。
	// 例如 monilog 配置嵌在应用配置的 monilog 节点下时设为 "monilog"。
	Prefix string
	// LookupEnv 读取环境变量，为 nil 时不做环境变量覆盖。
	LookupEnv func(key string) (string, bool)
}

// Option 配置选项函数。
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Delim:     ".",
		Tag:       "koanf",
		LookupEnv: os.LookupEnv,
	}
}

// WithDelim 设置配置键分隔符。
func WithDelim(delim string) Option {
	return func(o *Options) {
		if delim != "" {
			o.Delim = delim
		}
	}
}

// WithTag 设置结构体标签名。
func WithTag(tag string) Option {
	return func(o *Options) {
		if tag != "" {
			o.Tag = tag
		}
	}
}

// WithPrefix 设置配置所在的路径。
func WithPrefix(prefix string) Option {
	return func(o *Options) { o.Prefix = prefix }
}

// WithLookupEnv 替换环境变量读取函数，传 nil 关闭环境变量覆盖。
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(o *Options) { o.LookupEnv = fn }
}

func applyOptions(opts []Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}
