package goSignin

import (
	"errors"

	"github.com/MrEthical07/goSignin/session"
)

var (
	// ErrEngineNotReady is returned when an Engine was not produced by [Builder.Build].
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrBuilderUsed is returned by a second call to [Builder.Build].
	ErrBuilderUsed = errors.New("builder already used")
	// ErrRedisRequired is returned by Build when a Redis-backed feature is enabled without a client.
	ErrRedisRequired = errors.New("redis client required")
	// ErrContinuationInvalid is returned for tampered, expired or malformed continuation blobs.
	ErrContinuationInvalid = session.ErrContinuationInvalid
)
