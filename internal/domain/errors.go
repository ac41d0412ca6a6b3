package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeSongNotFound          = "SONG_NOT_FOUND"
	ErrCodeRateLimitExceeded     = "RATE_LIMIT_EXCEEDED"
	ErrCodeAIServiceTimeout      = "AI_SERVICE_TIMEOUT"
	ErrCodeInvalidResponseFormat = "INVALID_RESPONSE_FORMAT"
	ErrCodeInternalError         = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrLimitOutOfRange      = NewDomainError(ErrCodeValidation, "limit must be between 1 and 50")
	ErrBatchLimitOutOfRange = NewDomainError(ErrCodeValidation, "limit must be between 1 and 20 for batch requests")
	ErrBatchSizeOutOfRange  = NewDomainError(ErrCodeValidation, "batch must contain between 1 and 10 track ids")
	ErrMissingTrackID       = NewDomainError(ErrCodeValidation, "track id is required")
)

// Not found errors
var (
	ErrTrackNotFound = NewDomainError(ErrCodeSongNotFound, "track not found in catalog")
)

// AI provider errors
var (
	ErrAIRateLimited     = NewDomainError(ErrCodeRateLimitExceeded, "AI provider rate limit exceeded")
	ErrAITimeout         = NewDomainError(ErrCodeAIServiceTimeout, "AI provider call timed out")
	ErrAIInvalidResponse = NewDomainError(ErrCodeInvalidResponseFormat, "AI provider returned malformed recommendations")
)
