package response

import (
	"errors"

	"github.com/gin-gonic/gin"

	"realestate-api/internal/core/errs"
)

type Resp struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Msg     string `json:"msg"`
	Data    any    `json:"data"`
}

// New 构造函数（保证 data 不为 null）
func New(code int, msg string, data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Success: code < 400, Code: code, Msg: msg, Data: data}
}

// OK 成功响应
func OK(data any) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, nil)
}

// Abort 以 code 作为 HTTP 状态中断请求
func Abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, Error(code, msg))
}

// Fail 业务错误 → 信封；非 *errs.Error 一律 500，不暴露 cause
func Fail(c *gin.Context, err error) {
	var e *errs.Error
	if errors.As(err, &e) {
		Abort(c, e.Code, e.Msg)
		return
	}
	_ = c.Error(err)
	Abort(c, CodeServerError, "")
}
