package xclassify

// 固定哨兵 code/message。
const (
	CodeSuccess    = "SUCCESS"
	MessageSuccess = "success"

	CodeNullResult    = "NULL_RESULT"
	MessageNullResult = "result is null"

	CodeEmptyResult    = "EMPTY_RESULT"
	MessageEmptyResult = "result is empty"
)

// 指标 result 标签的取值。
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Verdict 是一次调用的分类结论。
//
// 调用抛出错误时 Success 必为 false。
type Verdict struct {
	Success bool
	Code    string
	Message string
}

// SuccessVerdict 返回带成功哨兵的结论。
func SuccessVerdict() Verdict {
	return Verdict{Success: true, Code: CodeSuccess, Message: MessageSuccess}
}

// Result 返回 result 标签值：success 或 error。
func (v Verdict) Result() string {
	if v.Success {
		return ResultSuccess
	}
	return ResultError
}
