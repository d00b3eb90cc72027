package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings for the redis driver.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// redisStore keeps each collection as a list of JSON documents under
// "<prefix>:<collection>".
type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, cfg RedisConfig) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &redisStore{client: client, prefix: cfg.Prefix}, nil
}

func (r *redisStore) key(collection string) string {
	if r.prefix == "" {
		return collection
	}
	return r.prefix + ":" + collection
}

func (r *redisStore) Find(ctx context.Context, collection string) ([]Document, error) {
	raw, err := r.client.LRange(ctx, r.key(collection), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(raw))
	for i, s := range raw {
		var d Document
		if err := json.Unmarshal([]byte(s), &d); err != nil {
			return nil, fmt.Errorf("decode %s[%d]: %w", collection, i, err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func (r *redisStore) FindOne(ctx context.Context, collection string) (Document, error) {
	s, err := r.client.LIndex(ctx, r.key(collection), 0).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lindex %s: %w", collection, err)
	}

	var d Document
	if err := json.Unmarshal([]byte(s), &d); err != nil {
		return nil, fmt.Errorf("decode %s[0]: %w", collection, err)
	}
	return d, nil
}

func (r *redisStore) Insert(ctx context.Context, collection string, docs ...Document) error {
	if len(docs) == 0 {
		return nil
	}
	vals := make([]any, 0, len(docs))
	for _, d := range docs {
		b, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("encode %s document: %w", collection, err)
		}
		vals = append(vals, b)
	}
	if err := r.client.RPush(ctx, r.key(collection), vals...).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", collection, err)
	}
	return nil
}

func (r *redisStore) Count(ctx context.Context, collection string) (int, error) {
	n, err := r.client.LLen(ctx, r.key(collection)).Result()
	if err != nil {
		return 0, fmt.Errorf("llen %s: %w", collection, err)
	}
	return int(n), nil
}

func (r *redisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisStore) Close() error {
	return r.client.Close()
}
