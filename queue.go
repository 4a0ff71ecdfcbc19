package redq

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Queue is a FIFO queue over a single Redis list. Handles obtained through
// Conn.Queue are singletons per name; handles built directly with NewQueue
// on the same client and name address the same list and stay consistent.
type Queue struct {
	cmd  redis.Cmdable
	opt  Options
	name string
}

func NewQueue(cmd redis.Cmdable, name string, opts ...Option) (*Queue, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidQueueName
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

	return &Queue{cmd: cmd, opt: opt, name: name}, nil
}

func (q *Queue) Name() string { return q.name }

func (q *Queue) key() string { return q.opt.Prefix + ":" + q.name }

// Push appends item to the tail and returns the new queue length.
func (q *Queue) Push(ctx context.Context, item []byte) (int64, error) {
	return q.cmd.RPush(ctx, q.key(), item).Result()
}

// Pop removes and returns the head item, waiting up to timeout when the
// queue is empty. A zero timeout blocks until an item arrives or ctx is
// canceled. It returns (nil, nil) when the wait elapses with nothing to
// deliver; cancellation surfaces as the ctx error, distinct from a timeout.
//
// BLPOP takes integer seconds and go-redis does not interrupt an in-flight
// blocking read on ctx cancellation, so long waits run as bounded 1s BLPOP
// rounds with the ctx re-checked between rounds. Sub-second remainders poll
// with LPOP and short sleeps so the deadline is honored exactly.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	if timeout < 0 {
		timeout = 0
	}
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var remaining time.Duration
		if !deadline.IsZero() {
			remaining = time.Until(deadline)
			if remaining <= 0 {
				return nil, nil
			}
		}

		if deadline.IsZero() || remaining >= time.Second {
			res, err := q.cmd.BLPop(ctx, time.Second, q.key()).Result()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				return nil, err
			}
			if len(res) == 2 {
				return []byte(res[1]), nil
			}
			continue
		}

		s, err := q.cmd.LPop(ctx, q.key()).Result()
		if err == nil {
			return []byte(s), nil
		}
		if err != redis.Nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}

		sleep := 10 * time.Millisecond
		if remaining < sleep {
			sleep = remaining
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
	}
}

// Length returns the current item count without blocking.
func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.cmd.LLen(ctx, q.key()).Result()
}

// Clear atomically empties the queue and returns how many items were
// removed. Pushes racing with Clear land either before the wipe (removed and
// counted) or after it (kept).
func (q *Queue) Clear(ctx context.Context) (int64, error) {
	var llen *redis.IntCmd
	_, err := q.cmd.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		llen = pipe.LLen(ctx, q.key())
		pipe.Del(ctx, q.key())
		return nil
	})
	if err != nil {
		return 0, err
	}
	return llen.Val(), nil
}
