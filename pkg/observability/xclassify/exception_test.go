package xclassify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type socketTimeoutError struct{ msg string }

func (e socketTimeoutError) Error() string { return e.msg }

type badInput struct{}

func (badInput) Error() string      { return "field x is required" }
func (badInput) InvalidParam() bool { return true }

type slowErr struct{}

func (slowErr) Error() string { return "took too long" }
func (slowErr) Timeout() bool { return true }

type silentErr struct{ cause error }

func (e *silentErr) Error() string { return "" }
func (e *silentErr) Unwrap() error { return e.cause }

type opError struct{ cause error }

func (e *opError) Error() string { return "op failed" }
func (e *opError) Unwrap() error { return e.cause }

func TestClassifyError(t *testing.T) {
	_, numErr := strconv.Atoi("x")
	verr := validator.New().Struct(struct {
		Name string `validate:"required"`
	}{})
	require.Error(t, verr)
	invalidVal := validator.New().Struct(nil)
	require.Error(t, invalidVal)

	tests := []struct {
		name string
		err  error
		code string
		msg  string
	}{
		{"sentinel param", fmt.Errorf("create order: %w", ErrInvalidParam), CodeParamError, "create order: xclassify: invalid parameter"},
		{"param interface", badInput{}, CodeParamError, "field x is required"},
		{"validator errors", verr, CodeParamError, verr.Error()},
		{"invalid validation", invalidVal, CodeParamError, invalidVal.Error()},
		{"num error", numErr, CodeParamError, numErr.Error()},
		{"grpc invalid argument", status.Error(codes.InvalidArgument, "bad id"), CodeParamError, "rpc error: code = InvalidArgument desc = bad id"},
		{
			"dns",
			&net.DNSError{Err: "no such host", Name: "nope.invalid", IsNotFound: true},
			CodeUnknownHost,
			"DNSError: lookup nope.invalid: no such host",
		},
		{"deadline", context.DeadlineExceeded, CodeServiceTimeout, "context deadline exceeded"},
		{"os deadline", fmt.Errorf("read: %w", os.ErrDeadlineExceeded), CodeServiceTimeout, "read: i/o timeout"},
		{"timeout interface", slowErr{}, CodeServiceTimeout, "took too long"},
		{"grpc deadline", status.Error(codes.DeadlineExceeded, "slow"), CodeServiceTimeout, "rpc error: code = DeadlineExceeded desc = slow"},
		{"socket timeout", socketTimeoutError{"read timed out"}, CodeServiceTimeout, "read timed out"},
		{"message heuristic", errors.New("upstream TIMEOUT after 3s"), CodeServiceTimeout, "upstream TIMEOUT after 3s"},
		{"cause heuristic", &opError{cause: errors.New("connection timed out")}, CodeServiceTimeout, "op failed"},
		{"system", errors.New("boom"), CodeSystemError, "boom"},
		{"canceled is system", context.Canceled, CodeSystemError, "context canceled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ClassifyError(tt.err)
			assert.Equal(t, tt.code, info.Code)
			assert.Equal(t, tt.msg, info.Message)
			assert.Equal(t, tt.code, info.Kind.Code())
		})
	}
}

func TestClassifyError_Message(t *testing.T) {
	info := ClassifyError(&silentErr{cause: errors.New("disk full")})
	assert.Equal(t, "disk full", info.Message, "falls back to cause message")

	info = ClassifyError(&silentErr{})
	assert.Equal(t, "silentErr occurred", info.Message)
	assert.Equal(t, CodeSystemError, info.Code)
}

func TestClassifyError_Nil(t *testing.T) {
	assert.Equal(t, ErrorInfo{}, ClassifyError(nil))

	var c *ExceptionClassifier
	assert.Equal(t, CodeSystemError, c.Classify(errors.New("x")).Code)
}

func TestClassifyError_UnwrapsPanic(t *testing.T) {
	info := ClassifyError(NewPanicError(context.DeadlineExceeded))
	assert.Equal(t, CodeServiceTimeout, info.Code)
	assert.Equal(t, "deadlineExceededError", info.TypeName)
	assert.ErrorIs(t, info.Cause, context.DeadlineExceeded)

	info = ClassifyError(NewPanicError("nil map write"))
	assert.Equal(t, CodeSystemError, info.Code)
	assert.Equal(t, "panic: nil map write", info.Message)
	assert.Equal(t, "PanicError", info.TypeName)
}

func TestExceptionClassifier_CustomMatchers(t *testing.T) {
	errQuota := errors.New("quota exceeded")
	c := NewExceptionClassifier()
	c.ParamMatchers = append(c.ParamMatchers, func(err error) bool { return errors.Is(err, errQuota) })

	assert.Equal(t, CodeParamError, c.Classify(fmt.Errorf("x: %w", errQuota)).Code)
	assert.Equal(t, CodeSystemError, ClassifyError(errQuota).Code, "default classifier unaffected")
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "errorString", TypeName(errors.New("x")))
	assert.Equal(t, "DNSError", TypeName(&net.DNSError{}))
	assert.Equal(t, "socketTimeoutError", TypeName(fmt.Errorf("wrap: %w", socketTimeoutError{})))
	assert.Equal(t, "", TypeName(nil))
}

func TestUnwrapInvocation(t *testing.T) {
	inner := errors.New("real")
	assert.Same(t, inner, UnwrapInvocation(NewPanicError(NewPanicError(inner))))

	pe := NewPanicError(42)
	assert.Same(t, pe, UnwrapInvocation(pe))
	assert.NotEmpty(t, pe.Stack)
}
