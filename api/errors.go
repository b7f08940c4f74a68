package api

import "errors"

var (
	// ErrTokenNotConfigured is returned by NewServer when Config.Token is empty.
	ErrTokenNotConfigured = errors.New("api token not configured")
	// ErrNilEngine is returned by NewServer without an engine.
	ErrNilEngine = errors.New("nil engine")
)

// Error titles reported in the "error" field.
const (
	titleEmptyPayload     = "Empty payload"
	titleTokenRequired    = "Token Required"
	titleInvalidToken     = "Invalid Token"
	titleIncomplete       = "Incomplete credentials"
	titleInvalidSession   = "Invalid Session"
	titleInvalidMethod    = "Invalid Method"
	titleParsingError     = "Parsing Error"
	titleInternal         = "Internal Error"
	titleTooManyAttempts  = "Too Many Attempts"
	titleInvalidCreds     = "Invalid credentials"
	titleConnectionFailed = "Connection Error"
)
