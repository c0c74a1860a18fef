package domain

import (
	"errors"
	"fmt"
)

// Error codes surfaced to clients.
const (
	CodeMatchNotFound       = "MATCH_NOT_FOUND"
	CodeMatchClosed         = "MATCH_CLOSED"
	CodeNextMatchNotFound   = "NEXT_MATCH_NOT_FOUND"
	CodeMatchAlreadyExists  = "MATCH_ALREADY_EXISTS"
	CodeMemberNotFound      = "MEMBER_NOT_FOUND"
	CodeMemberAlreadyExists = "MEMBER_ALREADY_EXISTS"
	CodeMemberBlocked       = "MEMBER_BLOCKED"
	CodePlayerUnavailable   = "PLAYER_UNAVAILABLE"
	CodeMovementNotFound    = "MOVEMENT_NOT_FOUND"
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL_ERROR"
)

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// HasCode reports whether err (or anything it wraps) is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Standard domain error constructors.

func ErrMatchNotFound(id string) *AppError {
	return &AppError{Code: CodeMatchNotFound, Message: fmt.Sprintf("match %s not found", id), Status: 404}
}

// ErrMatchClosed keeps the 404 status clients already expect for closed matches,
// but carries its own code so callers can tell "nothing there" from "too late".
func ErrMatchClosed(id string) *AppError {
	return &AppError{Code: CodeMatchClosed, Message: fmt.Sprintf("match %s is closed", id), Status: 404}
}

func ErrNextMatchNotFound() *AppError {
	return &AppError{Code: CodeNextMatchNotFound, Message: "there is no upcoming match", Status: 404}
}

func ErrMatchAlreadyExists(day string) *AppError {
	return &AppError{Code: CodeMatchAlreadyExists, Message: fmt.Sprintf("cannot create match for %s: a match is already scheduled", day), Status: 400}
}

func ErrMemberNotFound(ref string) *AppError {
	return &AppError{Code: CodeMemberNotFound, Message: fmt.Sprintf("member %s not found", ref), Status: 404}
}

func ErrMemberAlreadyExists(name string) *AppError {
	return &AppError{Code: CodeMemberAlreadyExists, Message: fmt.Sprintf("member %s already exists", name), Status: 400}
}

func ErrMemberBlocked(name string) *AppError {
	return &AppError{Code: CodeMemberBlocked, Message: fmt.Sprintf("member %s is blocked", name), Status: 400}
}

func ErrPlayerUnavailable(id string) *AppError {
	return &AppError{Code: CodePlayerUnavailable, Message: fmt.Sprintf("player %s has not confirmed availability", id), Status: 400}
}

func ErrMovementNotFound(id string) *AppError {
	return &AppError{Code: CodeMovementNotFound, Message: fmt.Sprintf("movement %s not found", id), Status: 404}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg, Status: 400}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: msg, Status: 401}
}

func ErrForbidden(msg string) *AppError {
	return &AppError{Code: CodeForbidden, Message: msg, Status: 403}
}

func ErrRateLimited(msg string) *AppError {
	return &AppError{Code: CodeRateLimited, Message: msg, Status: 429}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: msg, Status: 500, Cause: cause}
}
