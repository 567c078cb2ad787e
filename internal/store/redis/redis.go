package redis

import (
	"context"
	"fmt"

	"github.com/nexusai/billing/internal/config"
	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/store"
	"github.com/redis/go-redis/v9"
)

var _ store.Backend = (*Store)(nil)

// Store keeps each collection in one redis hash keyed by document id.
// Multi-document commits run inside MULTI/EXEC.
type Store struct {
	client *redis.Client
	prefix string
}

// New creates a redis backed store. The connection is verified separately
// through store.WaitForBackend so startup can retry.
func New(cfg config.RedisConfig) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewWithClient(client, cfg.KeyPrefix)
}

func NewWithClient(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(collection string) string {
	if s.prefix == "" {
		return collection
	}
	return fmt.Sprintf("%s:%s", s.prefix, collection)
}

func (s *Store) Get(ctx context.Context, collection, id string) ([]byte, error) {
	data, err := s.client.HGet(ctx, s.key(collection), id).Bytes()
	if err == redis.Nil {
		return nil, store.NotFound(collection, id)
	}
	if err != nil {
		return nil, wrap(err, "get", collection)
	}
	return data, nil
}

func (s *Store) List(ctx context.Context, collection string) ([][]byte, error) {
	vals, err := s.client.HVals(ctx, s.key(collection)).Result()
	if err != nil {
		return nil, wrap(err, "list", collection)
	}
	out := make([][]byte, 0, len(vals))
	for _, v := range vals {
		out = append(out, []byte(v))
	}
	return out, nil
}

func (s *Store) Put(ctx context.Context, collection, id string, data []byte) error {
	if err := s.client.HSet(ctx, s.key(collection), id, data).Err(); err != nil {
		return wrap(err, "put", collection)
	}
	return nil
}

func (s *Store) ReplaceAll(ctx context.Context, collection string, docs map[string][]byte) error {
	key := s.key(collection)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		for id, data := range docs {
			pipe.HSet(ctx, key, id, data)
		}
		return nil
	})
	if err != nil {
		return wrap(err, "replace", collection)
	}
	return nil
}

func (s *Store) Commit(ctx context.Context, writes []store.Write) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, w := range writes {
			pipe.HSet(ctx, s.key(w.Collection), w.ID, w.Data)
		}
		return nil
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to commit changes").
			WithReportableDetails(map[string]any{"writes": len(writes)}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func wrap(err error, op, collection string) error {
	return ierr.WithError(err).
		WithHintf("Failed to %s %s", op, collection).
		WithReportableDetails(map[string]any{"collection": collection}).
		Mark(ierr.ErrDatabase)
}
