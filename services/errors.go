package services

import "errors"

// ErrInvalidArgument marks a caller mistake (bad amount, bad method, days
// below one). Not retryable; the caller must fix the input.
var ErrInvalidArgument = errors.New("invalid argument")
