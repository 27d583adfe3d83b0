package domain

import (
	"errors"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given Param is not valid")
	// ErrForbidden will throw if the requester does not own the resource
	ErrForbidden = errors.New("you are not allowed to perform this action")
	// ErrUnauthorized will throw if the request carries no valid identity
	ErrUnauthorized = errors.New("user not authenticated")
	// ErrCacheMiss is returned by cache implementations when the key is absent
	ErrCacheMiss = errors.New("cache miss")
)

// Specific errors keep their own message but match their kind with errors.Is.
var (
	ErrDiscussionNotFound  = newKindError("discussion not found", ErrNotFound)
	ErrReplyNotFound       = newKindError("reply not found", ErrNotFound)
	ErrParentReplyNotFound = newKindError("parent reply not found", ErrNotFound)
	ErrApproachRequired    = newKindError("approach is required for solutions", ErrBadParamInput)
	ErrNotDiscussionOwner  = newKindError("not authorized to modify this discussion", ErrForbidden)
)

type kindError struct {
	msg  string
	kind error
}

func newKindError(msg string, kind error) error {
	return &kindError{msg: msg, kind: kind}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }
