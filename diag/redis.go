package diag

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisWriter stores artifacts as expiring Redis strings under prefix:name.
type RedisWriter struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisWriter returns a RedisWriter. ttl <= 0 keeps artifacts forever.
func NewRedisWriter(client redis.UniversalClient, prefix string, ttl time.Duration) (*RedisWriter, error) {
	if client == nil {
		return nil, errors.New("diag: redis client required")
	}
	if prefix == "" {
		prefix = "gs:diag"
	}
	return &RedisWriter{client: client, prefix: prefix, ttl: ttl}, nil
}

func (w *RedisWriter) key(name string) string {
	return w.prefix + ":" + name
}

func (w *RedisWriter) Write(ctx context.Context, name string, content []byte) error {
	return w.client.Set(ctx, w.key(name), content, w.ttl).Err()
}

// Read returns a previously written artifact.
func (w *RedisWriter) Read(ctx context.Context, name string) ([]byte, error) {
	return w.client.Get(ctx, w.key(name)).Bytes()
}
