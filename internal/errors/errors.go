package errors

import "fmt"

// Error codes
const (
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeNoWordAvailable = "NO_WORD_AVAILABLE"
	ErrCodeNoVocabYet      = "NO_VOCAB_YET"
	ErrCodeWordNotFound    = "WORD_NOT_FOUND"
	ErrCodeQuizNotFound    = "QUIZ_NOT_FOUND"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "QUIZ_NOT_FOUND", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewUnauthorizedError creates a new UNAUTHORIZED error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  401,
	}
}

// NewNoWordAvailableError reports an empty or exhausted word bank.
// 503 matches the original service's choice: the bank is a resource the
// server cannot currently provide, not a client mistake.
func NewNoWordAvailableError() *AppError {
	return &AppError{
		Code:    ErrCodeNoWordAvailable,
		Message: "no word available",
		Status:  503,
	}
}

// NewNoVocabYetError reports a quiz request against an empty history
func NewNoVocabYetError() *AppError {
	return &AppError{
		Code:    ErrCodeNoVocabYet,
		Message: "no vocab yet",
		Status:  400,
	}
}

// NewWordNotFoundError creates a new WORD_NOT_FOUND error
func NewWordNotFoundError(id int64) *AppError {
	return &AppError{
		Code:    ErrCodeWordNotFound,
		Message: fmt.Sprintf("word not found: %d", id),
		Status:  404,
	}
}

// NewQuizNotFoundError creates a new QUIZ_NOT_FOUND error
func NewQuizNotFoundError(quizID string) *AppError {
	return &AppError{
		Code:    ErrCodeQuizNotFound,
		Message: fmt.Sprintf("quiz not found: %s", quizID),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewInternalError wraps a store or other unexpected failure
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}
