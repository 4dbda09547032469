package xclassify

import (
	"fmt"
	"strings"

	"github.com/xixiU/monilog-sub001/pkg/observability/xpath"
)

// 默认提取路径。
const (
	DefaultSuccessPaths = "$.success,$.isSuccess(),$.succeed,$.ok,$.code==0,$.code==200,$.status==success"
	DefaultCodePaths    = "$.code,$.errCode,$.errorCode,$.status"
	DefaultMessagePaths = "$.message,$.msg,$.errMsg,$.errorMessage,$.error"
)

// Rules 是从返回值提取 成功标志/code/message 的三组候选路径。
type Rules struct {
	Success xpath.ExpressionSet
	Code    xpath.ExpressionSet
	Message xpath.ExpressionSet
}

// DefaultRules 返回默认路径规则。
func DefaultRules() Rules {
	return Rules{
		Success: xpath.MustParseExpressionSet(DefaultSuccessPaths),
		Code:    xpath.MustParseExpressionSet(DefaultCodePaths),
		Message: xpath.MustParseExpressionSet(DefaultMessagePaths),
	}
}

// ParseRules 解析三组路径列表，空列表沿用 base 中对应的规则。
func ParseRules(base Rules, success, code, message string) (Rules, error) {
	out := base
	for _, item := range []struct {
		name string
		list string
		dst  *xpath.ExpressionSet
	}{
		{"success", success, &out.Success},
		{"code", code, &out.Code},
		{"message", message, &out.Message},
	} {
		if strings.TrimSpace(item.list) == "" {
			continue
		}
		set, err := xpath.ParseExpressionSet(item.list)
		if err != nil {
			return Rules{}, fmt.Errorf("%w: %s paths: %w", ErrInvalidRules, item.name, err)
		}
		*item.dst = set
	}
	return out, nil
}

// Option 配置 ResultClassifier。
type Option func(*ResultClassifier)

// WithExceptionClassifier 设置错误分类器，nil 被忽略。
func WithExceptionClassifier(ec *ExceptionClassifier) Option {
	return func(c *ResultClassifier) {
		if ec != nil {
			c.exceptions = ec
		}
	}
}

// WithEvaluator 设置路径求值器（通常携带访问器缓存）。
func WithEvaluator(e xpath.Evaluator) Option {
	return func(c *ResultClassifier) {
		c.eval = e
	}
}

// ResultClassifier 根据返回值或调用错误产生 Verdict。
//
// 无可变状态，可并发使用。零值可用（默认错误分类器、无缓存求值器）。
type ResultClassifier struct {
	exceptions *ExceptionClassifier
	eval       xpath.Evaluator
}

// NewResultClassifier 创建结果分类器。
func NewResultClassifier(opts ...Option) *ResultClassifier {
	c := &ResultClassifier{exceptions: defaultExceptions}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Classify 对一次调用分类，每次调用只产生一个 Verdict，不重试。
//
//   - err 非 nil：交给错误分类器，与策略无关，Success 恒为 false
//   - IfNotException：成功哨兵
//   - IfNotNull：ret 为 nil 时返回 NULL_RESULT
//   - IfNotEmpty：IsEmpty(ret) 时返回 EMPTY_RESULT
//   - IfSuccess：按 rules.Success 提取布尔值，并独立提取 code/message；
//     提取不到布尔值时，未显式配置的策略退化为 IfNotException，
//     显式配置的策略判为失败
func (c *ResultClassifier) Classify(ret any, err error, rules Rules, p Policy) Verdict {
	if err != nil {
		return c.exceptionClassifier().Classify(err).Verdict()
	}

	switch p.Strategy {
	case StrategyIfNotException:
		return SuccessVerdict()
	case StrategyIfNotNull:
		if isNull(ret) {
			return Verdict{Code: CodeNullResult, Message: MessageNullResult}
		}
		return SuccessVerdict()
	case StrategyIfNotEmpty:
		if IsEmpty(ret) {
			return Verdict{Code: CodeEmptyResult, Message: MessageEmptyResult}
		}
		return SuccessVerdict()
	}

	var eval xpath.Evaluator
	if c != nil {
		eval = c.eval
	}
	flag, ok := rules.Success.EvaluateWith(eval, ret, xpath.TargetBool)
	if !ok && !p.Explicit {
		return SuccessVerdict()
	}

	var v Verdict
	if ok {
		v.Success, _ = flag.Bool()
	}
	if code, ok := rules.Code.EvaluateWith(eval, ret, xpath.TargetString); ok {
		v.Code = code.String()
	}
	if msg, ok := rules.Message.EvaluateWith(eval, ret, xpath.TargetString); ok {
		v.Message = msg.String()
	}
	return v
}

func (c *ResultClassifier) exceptionClassifier() *ExceptionClassifier {
	if c == nil || c.exceptions == nil {
		return defaultExceptions
	}
	return c.exceptions
}
