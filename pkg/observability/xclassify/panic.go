package xclassify

import (
	"fmt"
	"runtime/debug"
)

// PanicError 记录被观测调用中发生的 panic。
//
// 适配器在 recover 后用它构造 CallOutcome 的错误，然后重新 panic，
// 保证被观测调用的行为不变。分类时若 panic 值本身是 error，
// 会先解包到该 error 再分类。
type PanicError struct {
	Value any
	Stack []byte
}

// NewPanicError 包装 recover 得到的值并记录当前调用栈。
func NewPanicError(v any) *PanicError {
	return &PanicError{Value: v, Stack: debug.Stack()}
}

// Error 返回 "panic: <值>"。
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// InvocationCause 返回 panic 值中的 error，不是 error 时返回 nil。
func (e *PanicError) InvocationCause() error {
	err, _ := e.Value.(error)
	return err
}

// Unwrap 支持 errors.Is / errors.As 穿透到 panic 值中的 error。
func (e *PanicError) Unwrap() error {
	return e.InvocationCause()
}
