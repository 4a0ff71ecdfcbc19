package redq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// Handler processes one item popped from a queue. Returning an error makes
// the worker log the failure and back off before the next pop; the item is
// not requeued.
type Handler interface {
	HandleItem(ctx context.Context, queue string, payload []byte) error
}

type HandlerFunc func(ctx context.Context, queue string, payload []byte) error

func (f HandlerFunc) HandleItem(ctx context.Context, queue string, payload []byte) error {
	return f(ctx, queue, payload)
}

// JSONHandler decodes each payload as a JSON object before calling fn.
// Malformed payloads fail with ErrInvalidPayload.
func JSONHandler(fn func(ctx context.Context, queue string, data map[string]any) error) Handler {
	return HandlerFunc(func(ctx context.Context, queue string, payload []byte) error {
		var data map[string]any
		if err := json.Unmarshal(payload, &data); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return fn(ctx, queue, data)
	})
}

// LoggingHandler records every item it receives. Useful for debugging and
// for draining shared log queues.
func LoggingHandler(log zerolog.Logger) Handler {
	return HandlerFunc(func(_ context.Context, queue string, payload []byte) error {
		log.Info().Str("queue", queue).Bytes("payload", payload).Msg("received item")
		return nil
	})
}
