package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match an AppError against the sentinel of its code.
func (e *AppError) Is(target error) bool {
	s, ok := sentinelByCode[e.Code]
	return ok && s == target
}

// Error codes, one per failure kind of a run.
const (
	CodeConfig            = "CONFIG_ERROR"
	CodeRender            = "RENDER_ERROR"
	CodeExtraction        = "EXTRACTION_ERROR"
	CodeCapacityExhausted = "CAPACITY_EXHAUSTED"
	CodeRetryExhausted    = "RETRY_EXHAUSTED"
	CodeIO                = "IO_ERROR"
)

// Common application errors
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrRender            = errors.New("render error")
	ErrExtraction        = errors.New("extraction error")
	ErrCapacityExhausted = errors.New("service capacity exhausted")
	ErrRetryExhausted    = errors.New("retry budget exhausted")
	ErrIO                = errors.New("io error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrOutputExists      = errors.New("output file already exists")
)

var sentinelByCode = map[string]error{
	CodeConfig:            ErrConfiguration,
	CodeRender:            ErrRender,
	CodeExtraction:        ErrExtraction,
	CodeCapacityExhausted: ErrCapacityExhausted,
	CodeRetryExhausted:    ErrRetryExhausted,
	CodeIO:                ErrIO,
}

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func ConfigurationError(message string, cause error) error {
	return NewAppError(CodeConfig, message, cause)
}

func RenderError(message string, cause error) error {
	return NewAppError(CodeRender, message, cause)
}

func ExtractionError(message string, cause error) error {
	return NewAppError(CodeExtraction, message, cause)
}

func CapacityExhaustedError(message string, cause error) error {
	return NewAppError(CodeCapacityExhausted, message, cause)
}

func RetryExhaustedError(attempts int, cause error) error {
	return NewAppError(CodeRetryExhausted, fmt.Sprintf("gave up after %d attempts", attempts), cause)
}

func IOError(message string, cause error) error {
	return NewAppError(CodeIO, message, cause)
}

// ErrorCode returns the code of the outermost AppError in err's chain, or "".
func ErrorCode(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
