package transport

import "errors"

var (
	// ErrTransport wraps every network-level failure (dial, TLS, timeout, body read).
	ErrTransport = errors.New("transport failure")
	// ErrInvalidURL is returned when a request URL cannot be parsed.
	ErrInvalidURL = errors.New("invalid request url")
)
