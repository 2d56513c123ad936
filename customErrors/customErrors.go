package customErrors

import (
	"errors"
	"fmt"
)

const (
	ErrNotFound            = "NOT FOUND"
	ErrInvalidInput        = "INVALID INPUT"
	ErrAuth                = "UNAUTHORIZED"
	ErrAccessDenied        = "ACCESS DENIED"
	ErrConflict            = "CONFLICT"
	ErrInsufficientBalance = "INSUFFICIENT BALANCE"
	ErrInternal            = "INTERNAL"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ErrorResponse) Error() string {
	return fmt.Sprintf("code: %s, message: %s", e.Code, e.Message)
}

func New(code string, format string, args ...any) ErrorResponse {
	return ErrorResponse{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// CodeOf returns the code of the first ErrorResponse in err's chain,
// ErrInternal when there is none.
func CodeOf(err error) string {
	var appErr ErrorResponse
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// MessageOf returns a message safe to show to the client.
func MessageOf(err error) string {
	var appErr ErrorResponse
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Something went wrong, try again later."
}
