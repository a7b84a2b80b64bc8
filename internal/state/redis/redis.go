package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"heraldo/internal/state"
)

func init() {
	state.RegisterFactory("redis", New)
}

const stateKey = "heraldo:state"

type RedisStore struct {
	client *goredis.Client
}

func New(opts state.Options) (state.Store, error) {
	slog.Info("Initializing Redis state store", "addr", opts.Addr)

	client := goredis.NewClient(&goredis.Options{
		Addr: opts.Addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	slog.Info("State store initialized successfully")

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Load(ctx context.Context) (state.State, error) {
	document, err := s.client.Get(ctx, stateKey).Result()
	if errors.Is(err, goredis.Nil) {
		return state.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	var st state.State
	if err := json.Unmarshal([]byte(document), &st); err != nil {
		return nil, fmt.Errorf("failed to decode state document: %w", err)
	}

	return st, nil
}

func (s *RedisStore) Save(ctx context.Context, st state.State) error {
	document, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode state document: %w", err)
	}

	if err := s.client.Set(ctx, stateKey, string(document), 0).Err(); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, stateKey).Err(); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}

func (s *RedisStore) Close(ctx context.Context) error {
	return s.client.Close()
}
