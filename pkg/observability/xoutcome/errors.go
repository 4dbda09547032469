package xoutcome

import "errors"

var (
	// ErrUnknownKind 表示无法识别的入口类型名。
	ErrUnknownKind = errors.New("xoutcome: unknown entry kind")
	// ErrInvalidSettings 表示配置校验失败。
	ErrInvalidSettings = errors.New("xoutcome: invalid settings")
	// ErrInvalidSiteRule 表示调用点规则无法编译。
	ErrInvalidSiteRule = errors.New("xoutcome: invalid site rule")
	// ErrInvalidCacheConfig 表示解析缓存参数非法。
	ErrInvalidCacheConfig = errors.New("xoutcome: invalid cache config")
)
