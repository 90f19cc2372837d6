package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrCacheMiss       = errors.New("cache: key not found")
	ErrUnknownBackend  = errors.New("cache: unknown backend")
	ErrValueNotAllowed = errors.New("cache: empty value")
)

// BytesCache stores raw encoded values with a TTL.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// New builds the cache selected by backend.
func New(backend string, mem []MemoryOption, rds []RedisOption) (BytesCache, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryCache(mem...), nil
	case BackendRedis:
		return NewRedisCache(rds...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
