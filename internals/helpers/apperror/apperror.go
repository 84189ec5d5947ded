// Package apperror is the error taxonomy shared by services, the store and
// the HTTP layer. Every failure that leaves a service is an *Error.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation           Kind = "VALIDATION_ERROR"
	KindDuplicateIdentity    Kind = "DUPLICATE_IDENTITY"
	KindInvalidCredentials   Kind = "INVALID_CREDENTIALS"
	KindNotAuthenticated     Kind = "NOT_AUTHENTICATED"
	KindProfileMissing       Kind = "PROFILE_MISSING"
	KindAuthorization        Kind = "FORBIDDEN"
	KindNotFound             Kind = "NOT_FOUND"
	KindInvalidTransition    Kind = "INVALID_TRANSITION"
	KindDuplicateApplication Kind = "DUPLICATE_APPLICATION"
	KindNotAssigned          Kind = "NOT_ASSIGNED"
	KindHasActiveTasks       Kind = "HAS_ACTIVE_TASKS"
	KindRemoteStore          Kind = "REMOTE_STORE_ERROR"
)

// Sentinels for errors.Is. Any *Error of the same Kind matches.
var (
	ErrValidation           = &Error{Kind: KindValidation}
	ErrDuplicateIdentity    = &Error{Kind: KindDuplicateIdentity}
	ErrInvalidCredentials   = &Error{Kind: KindInvalidCredentials}
	ErrNotAuthenticated     = &Error{Kind: KindNotAuthenticated}
	ErrProfileMissing       = &Error{Kind: KindProfileMissing}
	ErrAuthorization        = &Error{Kind: KindAuthorization}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrInvalidTransition    = &Error{Kind: KindInvalidTransition}
	ErrDuplicateApplication = &Error{Kind: KindDuplicateApplication}
	ErrNotAssigned          = &Error{Kind: KindNotAssigned}
	ErrHasActiveTasks       = &Error{Kind: KindHasActiveTasks}
	ErrRemoteStore          = &Error{Kind: KindRemoteStore}
)

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
	Err     error

	retryable bool
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Retryable reports whether repeating the same call may succeed.
func (e *Error) Retryable() bool { return e.retryable }

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindDuplicateIdentity, KindInvalidTransition, KindDuplicateApplication, KindHasActiveTasks:
		return http.StatusConflict
	case KindInvalidCredentials, KindNotAuthenticated, KindProfileMissing:
		return http.StatusUnauthorized
	case KindAuthorization, KindNotAssigned:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRemoteStore:
		if e.retryable {
			return http.StatusServiceUnavailable
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string, fields map[string][]string) *Error {
	if message == "" {
		message = "validation failed"
	}
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// ValidationField is a single-field shorthand.
func ValidationField(field, problem string) *Error {
	return Validation(problem, map[string][]string{field: {problem}})
}

func Forbidden(format string, args ...any) *Error {
	return New(KindAuthorization, format, args...)
}

func NotFound(entity string) *Error {
	return New(KindNotFound, "%s not found", entity)
}

func InvalidTransition(entity, from, to string) *Error {
	return New(KindInvalidTransition, "%s cannot move from %s to %s", entity, from, to)
}

func Remote(err error, retryable bool) *Error {
	return &Error{Kind: KindRemoteStore, Message: "store request failed", Err: err, retryable: retryable}
}

// As extracts the first *Error in the chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}

func IsRetryable(err error) bool {
	if e, ok := As(err); ok {
		return e.Retryable()
	}
	return false
}
