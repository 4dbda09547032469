package xhttp

import "net/http"

// Status 是 HTTP 调用参与分类的返回值。
type Status struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatusOf 由状态码构造 Status，状态码 < 400 视为成功。
func StatusOf(code int) Status {
	return Status{Success: code > 0 && code < http.StatusBadRequest, Code: code, Message: http.StatusText(code)}
}
