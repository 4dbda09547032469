package xclassify

import (
	"fmt"
	"strings"
)

// Strategy 决定如何从返回值判定成功与否。
type Strategy int

const (
	// StrategyIfSuccess 从返回值中提取布尔成功标志（默认）。
	StrategyIfSuccess Strategy = iota
	// StrategyIfNotNull 返回值非空即成功。
	StrategyIfNotNull
	// StrategyIfNotEmpty 返回值非"空"即成功，见 IsEmpty。
	StrategyIfNotEmpty
	// StrategyIfNotException 未抛出错误即成功。
	StrategyIfNotException
)

// String 返回策略的配置名称。
func (s Strategy) String() string {
	switch s {
	case StrategyIfSuccess:
		return "if_success"
	case StrategyIfNotNull:
		return "if_not_null"
	case StrategyIfNotEmpty:
		return "if_not_empty"
	case StrategyIfNotException:
		return "if_not_exception"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy 解析策略名称。
// 忽略大小写以及 _ 和 -，因此 if_success、IfSuccess、IF-SUCCESS 等价。
func ParseStrategy(name string) (Strategy, error) {
	norm := strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(name)))
	switch norm {
	case "ifsuccess":
		return StrategyIfSuccess, nil
	case "ifnotnull":
		return StrategyIfNotNull, nil
	case "ifnotempty":
		return StrategyIfNotEmpty, nil
	case "ifnotexception":
		return StrategyIfNotException, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Policy 是调用点的策略配置。
//
// Explicit 记录策略是否由调用方显式指定。只有未显式指定时，
// IfSuccess 在找不到布尔结果的情况下才会自动退化为 IfNotException；
// 显式指定 IfSuccess 不会退化。
type Policy struct {
	Strategy Strategy
	Explicit bool
}

// DefaultPolicy 返回未显式配置的 IfSuccess 策略。
func DefaultPolicy() Policy {
	return Policy{Strategy: StrategyIfSuccess}
}

// ExplicitPolicy 返回显式指定的策略。
func ExplicitPolicy(s Strategy) Policy {
	return Policy{Strategy: s, Explicit: true}
}

// ParsePolicy 解析策略配置。name 为空表示未显式配置。
func ParsePolicy(name string) (Policy, error) {
	if strings.TrimSpace(name) == "" {
		return DefaultPolicy(), nil
	}
	s, err := ParseStrategy(name)
	if err != nil {
		return Policy{}, err
	}
	return ExplicitPolicy(s), nil
}

// String 返回策略名称，显式配置时带 ! 后缀。
func (p Policy) String() string {
	if p.Explicit {
		return p.Strategy.String() + "!"
	}
	return p.Strategy.String()
}
