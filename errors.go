package gesture

import "errors"

// Configuration errors returned by Catalog.Add and config.Build.
var (
	ErrMissingName        = errors.New("gesture has no name")
	ErrDuplicateName      = errors.New("gesture name already registered")
	ErrMissingTarget      = errors.New("gesture has no target")
	ErrMissingPointerType = errors.New("gesture has no pointer type")
	ErrInvalidPointerType = errors.New("invalid pointer type")
	ErrZeroTimeout        = errors.New("multi-pointer gesture requires a non-zero recognition timeout")
	ErrZeroRepeatTimeout  = errors.New("repeating gesture requires a non-zero repeat timeout")
)

// Consistency errors. These indicate a programming defect in the caller.
var (
	ErrNotCaptured = errors.New("pointers were never captured")
	ErrBadOrdinal  = errors.New("invalid pointer ordinal")
	ErrNotActive   = errors.New("gesture is not active")
)
