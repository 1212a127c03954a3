// Package cache holds the byte cache used for image responses.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

type Options struct {
	Backend    string // none, memory or redis
	RedisURL   string
	MaxEntries int
}

// New builds the store selected by opts.Backend.
func New(opts Options) (Store, error) {
	switch opts.Backend {
	case "", "none":
		return Noop{}, nil
	case "memory":
		return NewMemory(opts.MaxEntries), nil
	case "redis":
		return NewRedis(opts.RedisURL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) Delete(context.Context, ...string) error { return nil }
func (Noop) Close() error { return nil }
