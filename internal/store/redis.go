package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ridhwanrazaliwork/PR1ME-project/internal/config"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/domain"
)

// RedisStore keeps every record as a JSON field of one Redis hash.
type RedisStore struct {
	client *redis.Client
	key    string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to cfg.Addr and verifies the connection.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, domain.IOError("redis ping failed", err)
	}

	key := cfg.Key
	if key == "" {
		key = "contracts"
	}

	return &RedisStore{client: client, key: key}, nil
}

// Get retrieves a document by id.
func (s *RedisStore) Get(ctx context.Context, documentID string) (*domain.Record, error) {
	val, err := s.client.HGet(ctx, s.key, documentID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(documentID)
	}
	if err != nil {
		return nil, domain.IOError("redis hget", err)
	}

	var rec domain.Record
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, domain.IOError(fmt.Sprintf("stored record %s is corrupt", documentID), err)
	}
	return &rec, nil
}

// Put writes the record; HSET replaces a single field atomically.
func (s *RedisStore) Put(ctx context.Context, documentID string, record domain.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return domain.IOError("failed to encode record", err)
	}
	if err := s.client.HSet(ctx, s.key, documentID, data).Err(); err != nil {
		return domain.IOError("redis hset", err)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
