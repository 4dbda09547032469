package xclassify

import (
	"context"
	"errors"
	"net"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// 错误分类 code。
const (
	CodeParamError     = "PARAM_ERROR"
	CodeUnknownHost    = "UNKNOWN_HOST"
	CodeServiceTimeout = "SERVICE_TIMEOUT"
	CodeSystemError    = "SYSTEM_ERROR"
)

// ErrorKind 是错误的粗粒度分类。
type ErrorKind int

const (
	// KindSystem 其他系统错误。
	KindSystem ErrorKind = iota
	// KindParam 参数校验错误。
	KindParam
	// KindUnknownHost 主机名无法解析。
	KindUnknownHost
	// KindTimeout 超时。
	KindTimeout
)

// Code 返回分类对应的 code。
func (k ErrorKind) Code() string {
	switch k {
	case KindParam:
		return CodeParamError
	case KindUnknownHost:
		return CodeUnknownHost
	case KindTimeout:
		return CodeServiceTimeout
	default:
		return CodeSystemError
	}
}

// String 返回 code。
func (k ErrorKind) String() string { return k.Code() }

// ErrorInfo 是错误分类结果。
type ErrorInfo struct {
	Kind     ErrorKind
	Code     string
	Message  string
	TypeName string
	// Cause 是解包后实际参与分类的错误。
	Cause error
}

// Verdict 返回对应的失败结论。
func (i ErrorInfo) Verdict() Verdict {
	return Verdict{Code: i.Code, Message: i.Message}
}

// Matcher 判断错误是否属于某一分类。
type Matcher func(err error) bool

// ExceptionClassifier 将调用错误映射为 PARAM_ERROR / UNKNOWN_HOST /
// SERVICE_TIMEOUT / SYSTEM_ERROR。
//
// 判定顺序：参数错误、未知主机、超时（显式类型匹配后再做文本启发式）、系统错误。
// 可以向 ParamMatchers、TimeoutMatchers 追加自定义匹配器，
// 构造完成后不应再修改，之后可并发使用。
type ExceptionClassifier struct {
	ParamMatchers   []Matcher
	TimeoutMatchers []Matcher
}

// NewExceptionClassifier 创建带默认匹配器的分类器。
func NewExceptionClassifier() *ExceptionClassifier {
	return &ExceptionClassifier{
		ParamMatchers:   []Matcher{isParamError},
		TimeoutMatchers: []Matcher{isTimeoutError},
	}
}

var defaultExceptions = NewExceptionClassifier()

// ClassifyError 使用默认分类器对错误分类。
func ClassifyError(err error) ErrorInfo {
	return defaultExceptions.Classify(err)
}

// Classify 对错误分类。err 为 nil 时返回零值。
func (c *ExceptionClassifier) Classify(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}
	if c == nil {
		c = defaultExceptions
	}
	err = UnwrapInvocation(err)
	info := ErrorInfo{
		Kind:     KindSystem,
		TypeName: TypeName(err),
		Message:  errorMessage(err),
		Cause:    err,
	}

	var dnsErr *net.DNSError
	switch {
	case matchAny(c.ParamMatchers, err):
		info.Kind = KindParam
	case errors.As(err, &dnsErr):
		info.Kind = KindUnknownHost
		info.Message = TypeName(dnsErr) + ": " + info.Message
	case matchAny(c.TimeoutMatchers, err), looksLikeTimeout(err):
		info.Kind = KindTimeout
	}
	info.Code = info.Kind.Code()
	return info
}

func matchAny(ms []Matcher, err error) bool {
	for _, m := range ms {
		if m != nil && m(err) {
			return true
		}
	}
	return false
}

func isParamError(err error) bool {
	if errors.Is(err, ErrInvalidParam) {
		return true
	}
	var p interface{ InvalidParam() bool }
	if errors.As(err, &p) && p.InvalidParam() {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return true
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return true
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return true
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.InvalidArgument {
		return true
	}
	return false
}

func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	if errors.As(err, &t) && t.Timeout() {
		return true
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.DeadlineExceeded {
		return true
	}
	return false
}

// maxCauseDepth 限制沿 cause 链做文本启发式的深度。
const maxCauseDepth = 16

// looksLikeTimeout 对错误及其 cause 链做文本匹配：
// 类型名与消息拼接后包含 timeout 或 timed out（忽略大小写）。
func looksLikeTimeout(err error) bool {
	for depth := 0; err != nil && depth < maxCauseDepth; depth++ {
		text := strings.ToLower(TypeName(err) + err.Error())
		if strings.Contains(text, "timeout") || strings.Contains(text, "timed out") {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// errorMessage 优先取错误自身消息，为空时取直接 cause 的消息，
// 仍为空时返回 "<类型名> occurred"。
func errorMessage(err error) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	if cause := errors.Unwrap(err); cause != nil {
		if msg := strings.TrimSpace(cause.Error()); msg != "" {
			return msg
		}
	}
	return TypeName(err) + " occurred"
}

// invocationCauser 由包装了真实调用错误的错误类型实现。
type invocationCauser interface {
	InvocationCause() error
}

// UnwrapInvocation 剥离调用包装层（PanicError 及实现 InvocationCause 的错误），
// 返回真实的调用错误。不是包装层时原样返回。
func UnwrapInvocation(err error) error {
	for depth := 0; err != nil && depth < maxCauseDepth; depth++ {
		ic, ok := err.(invocationCauser)
		if !ok {
			return err
		}
		cause := ic.InvocationCause()
		if cause == nil {
			return err
		}
		err = cause
	}
	return err
}

// TypeName 返回错误的简单类型名（不含包路径与指针标记）。
// fmt.Errorf 产生的包装类型会被跳过，返回被包装错误的类型名。
func TypeName(err error) string {
	for depth := 0; err != nil && depth < maxCauseDepth; depth++ {
		t := reflect.TypeOf(err)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.PkgPath() == "fmt" {
			if inner := errors.Unwrap(err); inner != nil {
				err = inner
				continue
			}
		}
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
	return ""
}
