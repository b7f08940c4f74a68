package session

import (
	"encoding/json"
	"fmt"
	"time"
)

// CurrentSchemaVersion is stamped on every sealed continuation. Blobs carrying any
// other version are rejected.
const CurrentSchemaVersion = 1

// Sealer signs and verifies opaque payloads. *jwt.Manager satisfies it.
type Sealer interface {
	Seal(payload []byte) (string, error)
	Open(token string) ([]byte, error)
	TTL() time.Duration
}

// Codec converts continuations to and from sealed blobs.
type Codec struct {
	sealer Sealer
}

type envelope struct {
	Version      int          `json:"v"`
	Continuation Continuation `json:"c"`
}

// NewCodec wraps sealer.
func NewCodec(sealer Sealer) *Codec {
	return &Codec{sealer: sealer}
}

// TTL is how long a sealed blob stays valid.
func (c *Codec) TTL() time.Duration {
	if c == nil || c.sealer == nil {
		return 0
	}
	return c.sealer.TTL()
}

// Seal encodes cont into a signed blob.
func (c *Codec) Seal(cont Continuation) (string, error) {
	if c == nil || c.sealer == nil {
		return "", ErrCodecUnavailable
	}
	raw, err := json.Marshal(envelope{Version: CurrentSchemaVersion, Continuation: cont})
	if err != nil {
		return "", fmt.Errorf("session: encode continuation: %w", err)
	}
	return c.sealer.Seal(raw)
}

// Open verifies and decodes blob.
func (c *Codec) Open(blob string) (Continuation, error) {
	if c == nil || c.sealer == nil {
		return Continuation{}, ErrCodecUnavailable
	}
	if blob == "" {
		return Continuation{}, ErrContinuationInvalid
	}
	raw, err := c.sealer.Open(blob)
	if err != nil {
		return Continuation{}, fmt.Errorf("%w: %v", ErrContinuationInvalid, err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Continuation{}, fmt.Errorf("%w: %v", ErrContinuationInvalid, err)
	}
	if env.Version != CurrentSchemaVersion {
		return Continuation{}, fmt.Errorf("%w: unsupported schema version %d", ErrContinuationInvalid, env.Version)
	}
	return env.Continuation, nil
}
