package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/wricardo/slidingpuzzle/game/codec"
	"github.com/wricardo/slidingpuzzle/game/engine"
	"github.com/wricardo/slidingpuzzle/game/service"
)

// DefaultRedisPrefix namespaces save keys
const DefaultRedisPrefix = "slidingpuzzle:save:"

// RedisPersistence implements service.BoardStore on top of redis. Each save
// is stored as one string key holding the save-file encoding.
type RedisPersistence struct {
	client *redis.Client
	prefix string
	opts   codec.Options
}

// NewRedisPersistence connects to addr and verifies the connection
func NewRedisPersistence(ctx context.Context, addr, prefix string, opts codec.Options) (*RedisPersistence, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisPersistenceWithClient(client, prefix, opts), nil
}

// NewRedisPersistenceWithClient wraps an existing client
func NewRedisPersistenceWithClient(client *redis.Client, prefix string, opts codec.Options) *RedisPersistence {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisPersistence{
		client: client,
		prefix: prefix,
		opts:   opts,
	}
}

// Save stores board under name
func (rp *RedisPersistence) Save(ctx context.Context, name string, board *engine.Board) error {
	key, err := rp.key(name)
	if err != nil {
		return err
	}

	data, err := codec.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to encode board: %w", err)
	}

	if err := rp.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save board in Redis: %w", err)
	}
	return nil
}

// Load fetches and decodes the board stored under name
func (rp *RedisPersistence) Load(ctx context.Context, name string) (*engine.Board, error) {
	key, err := rp.key(name)
	if err != nil {
		return nil, err
	}

	data, err := rp.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", service.ErrSaveNotFound, name)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get board from Redis: %w", err)
	}

	board, err := codec.Unmarshal(data, rp.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return board, nil
}

// Exists checks if a save is stored under name
func (rp *RedisPersistence) Exists(ctx context.Context, name string) bool {
	key, err := rp.key(name)
	if err != nil {
		return false
	}
	n, err := rp.client.Exists(ctx, key).Result()
	return err == nil && n > 0
}

// Delete removes the save stored under name
func (rp *RedisPersistence) Delete(ctx context.Context, name string) error {
	key, err := rp.key(name)
	if err != nil {
		return err
	}

	n, err := rp.client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to delete board in Redis: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", service.ErrSaveNotFound, name)
	}
	return nil
}

// List returns every save name under the prefix, sorted
func (rp *RedisPersistence) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := rp.client.Scan(ctx, 0, rp.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), rp.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list saves in Redis: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// Close releases the redis connection pool
func (rp *RedisPersistence) Close() error {
	return rp.client.Close()
}

func (rp *RedisPersistence) key(name string) (string, error) {
	clean, err := cleanSaveName(name)
	if err != nil {
		return "", err
	}
	return rp.prefix + clean, nil
}
