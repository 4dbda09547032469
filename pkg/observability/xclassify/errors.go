package xclassify

import "errors"

var (
	// ErrInvalidParam 业务代码可包装此错误以表示参数校验失败，
	// 分类结果为 PARAM_ERROR。
	ErrInvalidParam = errors.New("xclassify: invalid parameter")

	// ErrUnknownStrategy 表示无法识别的策略名称。
	ErrUnknownStrategy = errors.New("xclassify: unknown strategy")

	// ErrInvalidRules 表示路径规则解析失败。
	ErrInvalidRules = errors.New("xclassify: invalid rules")
)
