// Package errs 业务错误：Code 直接使用 HTTP 状态码，由传输层映射进响应信封
package errs

import (
	"errors"
	"net/http"
)

type Error struct {
	Code int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

func New(code int, msg string) error { return &Error{Code: code, Msg: msg} }

func BadRequest(msg string) error   { return &Error{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Code: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Code: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &Error{Code: http.StatusNotFound, Msg: msg} }
func Conflict(msg string) error     { return &Error{Code: http.StatusConflict, Msg: msg} }
func Gone(msg string) error         { return &Error{Code: http.StatusGone, Msg: msg} }

// Internal 对外只暴露 msg，cause 留给日志
func Internal(msg string, err error) error {
	return &Error{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// CodeOf 非 *Error 一律视为 500
func CodeOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return http.StatusInternalServerError
}

func Is(err error, code int) bool { return err != nil && CodeOf(err) == code }
