package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies a TreeError.
type ErrorCode string

const (
	// Tree errors
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"
	ErrCodeIdentifierMismatch ErrorCode = "IDENTIFIER_MISMATCH"
	ErrCodeProviderDisposed   ErrorCode = "PROVIDER_DISPOSED"

	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Domain source errors
	ErrCodeSourceNotFound ErrorCode = "SOURCE_NOT_FOUND"
	ErrCodeSourceInvalid  ErrorCode = "SOURCE_INVALID"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// TreeError is an error carrying a code, a message and optional details
// for machine-readable output.
type TreeError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *TreeError) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Cause)
	}
	return msg
}

func (e *TreeError) Unwrap() error { return e.Cause }

// Is lets the standard errors.Is match on code: a *TreeError target with
// only a Code set matches any TreeError carrying that code.
func (e *TreeError) Is(target error) bool {
	t, ok := target.(*TreeError)
	return ok && t.Code == e.Code
}

// WithDetail records key on the error and returns it for chaining.
func (e *TreeError) WithDetail(key string, value interface{}) *TreeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON renders the error for --json output. The cause, when present,
// is flattened into the "cause" detail.
func (e *TreeError) ToJSON() string {
	out := *e
	if e.Cause != nil {
		out.Details = make(map[string]interface{}, len(e.Details)+1)
		for k, v := range e.Details {
			out.Details[k] = v
		}
		out.Details["cause"] = e.Cause.Error()
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	return string(data)
}

func New(code ErrorCode, message string) *TreeError {
	return &TreeError{Code: code, Message: message}
}

func Wrap(err error, code ErrorCode, message string) *TreeError {
	return &TreeError{Code: code, Message: message, Cause: err}
}

// Is reports whether any error in err's chain is a TreeError with code.
func Is(err error, code ErrorCode) bool {
	return stderrors.Is(err, &TreeError{Code: code})
}

// GetCode returns the code of the outermost TreeError in err's chain, or ""
// when there is none.
func GetCode(err error) ErrorCode {
	var te *TreeError
	if stderrors.As(err, &te) {
		return te.Code
	}
	return ""
}
