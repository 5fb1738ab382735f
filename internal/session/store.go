// Package session keeps the short-lived registration conversation state
// for each participant, keyed by handle. Storing it out of process
// replaces the ambient in-memory map the workflow would otherwise need.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Step identifies what input the registration flow is waiting for.
type Step string

const (
	StepFullName Step = "full_name"
	StepPhone    Step = "phone"
)

// Registration is the per-participant conversation state.
type Registration struct {
	Step     Step   `json:"step"`
	FullName string `json:"full_name,omitempty"`
}

// ErrNoSession signals that no registration is in progress for a handle.
var ErrNoSession = errors.New("no registration session")

// Store persists registration sessions.
type Store interface {
	Get(ctx context.Context, handle string) (*Registration, error)
	Put(ctx context.Context, handle string, reg *Registration) error
	Delete(ctx context.Context, handle string) error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func sessionKey(handle string) string {
	return "registration:" + handle
}

func (s *redisStore) Get(ctx context.Context, handle string) (*Registration, error) {
	raw, err := s.client.Get(ctx, sessionKey(handle)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("session get: %w", err)
	}
	var reg Registration
	if err := json.Unmarshal(raw, &reg); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &reg, nil
}

func (s *redisStore) Put(ctx context.Context, handle string, reg *Registration) error {
	raw, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(handle), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, handle string) error {
	if err := s.client.Del(ctx, sessionKey(handle)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}
