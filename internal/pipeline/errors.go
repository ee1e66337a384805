package pipeline

import "errors"

var (
	ErrInputNotFound = errors.New("input not found")
	ErrUnreadable    = errors.New("input unreadable")
	ErrWriteFailed   = errors.New("output write failed")
	ErrMissingStage  = errors.New("required stage not configured")
)
