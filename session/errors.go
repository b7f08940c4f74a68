package session

import "errors"

var (
	// ErrContinuationInvalid is returned for tampered, expired or malformed blobs.
	ErrContinuationInvalid = errors.New("session: continuation invalid")
	ErrCodecUnavailable    = errors.New("session: codec not configured")
)
