package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrBadLineCount = errors.New("need 6 lines")
	ErrEmptyPayload = errors.New("empty payload")
)
