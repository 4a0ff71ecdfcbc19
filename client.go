package redq

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps one Redis key holding either a scalar value or a hash. Mixing
// the two shapes on the same key is not masked: Redis reports WRONGTYPE and
// the error is returned untouched.
type Client struct {
	cmd redis.Cmdable
	opt Options
	key string
}

func NewClient(cmd redis.Cmdable, key string, opts ...Option) (*Client, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrInvalidKey
	}

	opt := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&opt)
		}
	}
	if opt.Prefix == "" {
		opt.Prefix = "redq"
	}

	return &Client{cmd: cmd, opt: opt, key: key}, nil
}

func (c *Client) Key() string { return c.key }

func (c *Client) storeKey() string { return c.opt.Prefix + ":" + c.key }

// Set overwrites the scalar value. A positive ttl makes the key expire after
// that duration; zero stores it without expiry.
func (c *Client) Set(ctx context.Context, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.cmd.Set(ctx, c.storeKey(), value, ttl).Err()
}

// Get returns the scalar value, or (nil, nil) when the key is absent or
// expired.
func (c *Client) Get(ctx context.Context) ([]byte, error) {
	b, err := c.cmd.Get(ctx, c.storeKey()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// HSet sets one hash field without disturbing the others. A positive ttl
// resets the expiry of the entire record, not just the field.
func (c *Client) HSet(ctx context.Context, field string, value []byte, ttl time.Duration) error {
	if ttl > 0 {
		pipe := c.cmd.Pipeline()
		pipe.HSet(ctx, c.storeKey(), field, value)
		pipe.Expire(ctx, c.storeKey(), ttl)
		_, err := pipe.Exec(ctx)
		return err
	}
	return c.cmd.HSet(ctx, c.storeKey(), field, value).Err()
}

// HGet returns one hash field, or (nil, nil) when the field or key is absent.
func (c *Client) HGet(ctx context.Context, field string) ([]byte, error) {
	b, err := c.cmd.HGet(ctx, c.storeKey(), field).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// HGetAll returns every hash field. An absent key yields an empty map.
func (c *Client) HGetAll(ctx context.Context) (map[string][]byte, error) {
	m, err := c.cmd.HGetAll(ctx, c.storeKey()).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(m))
	for field, v := range m {
		out[field] = []byte(v)
	}
	return out, nil
}

// Delete removes the key. Deleting an absent key is not an error.
func (c *Client) Delete(ctx context.Context) error {
	return c.cmd.Del(ctx, c.storeKey()).Err()
}

func (c *Client) Exists(ctx context.Context) (bool, error) {
	n, err := c.cmd.Exists(ctx, c.storeKey()).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Expire sets the record's TTL. Expiring an absent key is a no-op.
func (c *Client) Expire(ctx context.Context, ttl time.Duration) error {
	return c.cmd.Expire(ctx, c.storeKey(), ttl).Err()
}
