package dispatch

import "errors"

var (
	ErrInvalidMethod       = errors.New("dispatch: invalid method")
	ErrMissingPromptParams = errors.New("dispatch: prompt parameters missing")
	// ErrPromptTimeout means the user did not answer the prompt in time.
	ErrPromptTimeout = errors.New("dispatch: prompt timed out")
	// ErrPromptRejected means the await endpoint answered with something unusable.
	ErrPromptRejected = errors.New("dispatch: prompt response rejected")
	ErrConnection     = errors.New("dispatch: connection failed")
)
