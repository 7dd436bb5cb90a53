// Package errors 定义工具调用的结构化错误
//
// 每个错误带一个稳定的 ErrorCode，执行器据此生成 {success:false, error:...}
// 响应；底层原因通过 Unwrap 保留。
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 会话错误
	ErrorNoTargetWindow ErrorCode = "NO_TARGET_WINDOW"
	ErrorWindowNotFound ErrorCode = "WINDOW_NOT_FOUND"

	// 采集与识别错误
	ErrorCaptureFailed     ErrorCode = "CAPTURE_FAILED"
	ErrorRecognitionFailed ErrorCode = "RECOGNITION_FAILED"

	// 参数错误
	ErrorInvalidParameter ErrorCode = "INVALID_PARAMETER"

	ErrorInternal ErrorCode = "INTERNAL"
)

// ToolError 工具调用错误
type ToolError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *ToolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ToolError) Unwrap() error {
	return e.Cause
}

// Is 按错误码比较，便于 errors.Is(err, &ToolError{Code: ...})
func (e *ToolError) Is(target error) bool {
	t, ok := target.(*ToolError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

// New 创建指定错误码的错误
func New(code ErrorCode, format string, args ...interface{}) *ToolError {
	return &ToolError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap 包装底层错误
func Wrap(code ErrorCode, cause error, format string, args ...interface{}) *ToolError {
	return &ToolError{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func NewNoTargetWindowError() *ToolError {
	return New(ErrorNoTargetWindow, "尚未选择游戏窗口，请先调用 find_game_window()")
}

func NewWindowNotFoundError(title string) *ToolError {
	return New(ErrorWindowNotFound, "未找到标题包含 %q 的游戏窗口", title)
}

func NewCaptureFailedError(cause error) *ToolError {
	return Wrap(ErrorCaptureFailed, cause, "截图失败")
}

func NewRecognitionFailedError(cause error) *ToolError {
	return Wrap(ErrorRecognitionFailed, cause, "OCR 识别失败")
}

func NewInvalidParameterError(format string, args ...interface{}) *ToolError {
	return New(ErrorInvalidParameter, format, args...)
}

// CodeOf 返回错误链中第一个 ToolError 的错误码，没有则为 INTERNAL
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var te *ToolError
	if stderrors.As(err, &te) {
		return te.Code
	}
	return ErrorInternal
}

// HasCode 判断错误链中是否包含指定错误码
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
