package errors

import "github.com/cockroachdb/errors"

// ErrorResponse is the body every failed API call renders
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the caller-facing message plus the machine-readable
// code of the sentinel the error was marked with.
type ErrorDetail struct {
	Code          string         `json:"code"`
	Display       string         `json:"message"`
	InternalError string         `json:"internal_error,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}

// ordered so the more specific markers win when an error carries several
var responseCodes = []*InternalError{
	ErrGatewayUnavailable,
	ErrInvariantViolation,
	ErrNotFound,
	ErrAlreadyExists,
	ErrValidation,
	ErrInvalidOperation,
	ErrPermissionDenied,
	ErrDatabase,
	ErrSystem,
}

// CodeFromErr returns the code of the first sentinel err is marked with, or
// system_error for unmarked errors.
func CodeFromErr(err error) string {
	for _, sentinel := range responseCodes {
		if errors.Is(err, sentinel) {
			return sentinel.Code
		}
	}
	return ErrCodeSystemError
}

// NewErrorResponse builds the failure body for err. The raw error text is
// never copied into it, only the display message and safe details.
func NewErrorResponse(err error, display string, details map[string]any) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    CodeFromErr(err),
			Display: display,
			Details: details,
		},
	}
}
