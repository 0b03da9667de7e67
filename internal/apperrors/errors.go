// Package apperrors defines the typed error taxonomy of the review and
// catalog workflows. Every business rule failure maps to one of the codes
// below; anything else is wrapped as an internal error whose cause is logged
// but never sent to the client.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	CodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeConflict        ErrorCode = "CONFLICT"
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	HTTPCode int       `json:"-"`
	Err      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets predefined errors match wrapped copies of themselves through
// errors.Is, comparing by code and message rather than pointer identity.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

// Internal wraps an unanticipated failure (usually a storage error) so it
// surfaces as a generic non-retryable 500.
func Internal(err error) *AppError {
	return &AppError{
		Code:     CodeInternal,
		Message:  "internal error",
		HTTPCode: http.StatusInternalServerError,
		Err:      err,
	}
}

// Predefined errors
var (
	ErrUnauthorized = New(CodeUnauthorized, "authentication required", http.StatusUnauthorized)

	ErrOwnersCannotReview = New(CodeForbidden, "venue owners cannot leave reviews", http.StatusForbidden)
	ErrNotVenueOwner      = New(CodeForbidden, "only the venue owner can respond to this review", http.StatusForbidden)
	ErrNotReviewAuthor    = New(CodeForbidden, "only the author can edit this review", http.StatusForbidden)
	ErrOwnerPanelOnly     = New(CodeForbidden, "this panel is only for venue owners", http.StatusForbidden)

	ErrVenueNotFound    = New(CodeNotFound, "venue not found", http.StatusNotFound)
	ErrReviewNotFound   = New(CodeNotFound, "review not found", http.StatusNotFound)
	ErrUserNotFound     = New(CodeNotFound, "user not found", http.StatusNotFound)
	ErrCategoryNotFound = New(CodeNotFound, "category not found", http.StatusNotFound)
	ErrLocationNotFound = New(CodeNotFound, "location not found", http.StatusNotFound)
	ErrPromoNotFound    = New(CodeNotFound, "promotion not found", http.StatusNotFound)

	ErrDuplicateReview = New(CodeConflict, "you already reviewed this venue", http.StatusConflict)

	ErrInvalidRating    = New(CodeInvalidArgument, "rating must be between 1 and 5", http.StatusBadRequest)
	ErrInvalidSentiment = New(CodeInvalidArgument, "sentiment must be positive or negative", http.StatusBadRequest)
)
