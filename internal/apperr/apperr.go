// Package apperr defines the error taxonomy shared by the service and transport layers.
//
// Every error a handler can surface is either an *Error (carrying a Kind and, optionally,
// an explicit HTTP status) or an unexpected error, which is treated as KindInternal.
package apperr

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies an error for the transport boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuth
	KindState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindState:
		return "state"
	default:
		return "internal"
	}
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	// Status overrides the kind's default HTTP status when non-zero.
	Status int
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, status int, msg string) *Error {
	return &Error{Kind: kind, Status: status, Message: msg}
}

// Validation builds a ValidationError carrying field-level messages.
func Validation(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// Internal wraps an unexpected failure. The cause is kept for logging only.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// Friendship state errors.
var (
	ErrSelfRelationship = newErr(KindValidation, 0, "Invalid request: User cannot have relationship with themself.")
	ErrInvalidOperation = newErr(KindState, 0, "Invalid request body: 'operation' is not valid on current friendship")
	ErrNoSuchRequest    = newErr(KindState, 0, "Invalid request body: There is no friend request from this user")
	ErrAlreadyPending   = newErr(KindConflict, 0, "A friend request between these users is already pending")
	ErrAlreadyFriends   = newErr(KindConflict, 0, "Users are already friends")
	ErrAlreadyBlocking  = newErr(KindConflict, 0, "User is already blocking specified user")
	ErrNotBlocking      = newErr(KindState, 0, "Can not unblock this user")
	ErrNotFriends       = newErr(KindState, 0, "Users are not friends")

	// ErrConcurrentModification reports a lost compare-and-set race on a stored record.
	ErrConcurrentModification = newErr(KindConflict, 0, "The record was modified concurrently, please retry")
)

// Token and credential errors.
var (
	ErrUnauthorized       = newErr(KindAuth, http.StatusUnauthorized, "Access Denied")
	ErrMissingToken       = newErr(KindAuth, http.StatusForbidden, "refresh token not provided")
	ErrTokenMismatch      = newErr(KindAuth, http.StatusForbidden, "refresh token does not match")
	ErrInvalidToken       = newErr(KindAuth, http.StatusForbidden, "Invalid Token")
	ErrVersionMismatch    = newErr(KindAuth, http.StatusForbidden, "token version mismatch")
	ErrStaleToken         = newErr(KindAuth, http.StatusUnauthorized, "Token version mismatch")
	ErrInvalidCredentials = newErr(KindAuth, http.StatusBadRequest, "Invalid credentials")
)

// Lookup, ownership and uniqueness errors.
var (
	ErrUserNotFound     = newErr(KindNotFound, 0, "User not found")
	ErrLoginNotFound    = newErr(KindNotFound, http.StatusBadRequest, "User not found")
	ErrTargetNotFound   = newErr(KindNotFound, 0, "The requested user was not found")
	ErrPostNotFound     = newErr(KindNotFound, 0, "Post could not be found")
	ErrWorkoutNotFound  = newErr(KindNotFound, 0, "Workout could not be found")
	ErrExerciseNotFound = newErr(KindNotFound, 0, "Exercise template could not be found")
	ErrDuplicateUser    = newErr(KindConflict, 0, "A user with that username or email already exists")
	ErrNotPostOwner     = newErr(KindState, http.StatusForbidden, "User did not create this post")
	ErrNotWorkoutOwner  = newErr(KindState, http.StatusForbidden, "User did not create this workout")
)

// KindOf reports the kind of err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case KindValidation, KindState:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message that may be shown to a client.
// Internal errors never leak their cause.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return "something went wrong"
	}
	return e.Message
}

// FieldsOf returns field-level validation messages, if any.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
