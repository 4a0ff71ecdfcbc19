// Package task defines the JSON envelope producers push onto queues and the
// dispatcher consumers use to route decoded envelopes to job functions.
package task

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/aura-studio/redq"
)

// Task is the payload envelope. Producers and consumers agree on it
// out-of-band; the queue layer treats it as opaque bytes.
type Task struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Args       map[string]any `json:"args,omitempty"`
	EnqueuedAt int64          `json:"enqueued_at_ms"`
}

func New(name string, args map[string]any) Task {
	return Task{
		ID:         uuid.NewString(),
		Name:       name,
		Args:       args,
		EnqueuedAt: time.Now().UnixMilli(),
	}
}

func (t Task) Encode() ([]byte, error) {
	return json.Marshal(t)
}

func Decode(payload []byte) (Task, error) {
	var t Task
	if err := json.Unmarshal(payload, &t); err != nil {
		return Task{}, fmt.Errorf("%w: %v", redq.ErrInvalidPayload, err)
	}
	if t.Name == "" {
		return Task{}, fmt.Errorf("%w: missing task name", redq.ErrInvalidPayload)
	}
	return t, nil
}

// StringArg returns the named argument as a string, or "" when absent or of
// another type.
func (t Task) StringArg(key string) string {
	if s, ok := t.Args[key].(string); ok {
		return s
	}
	return ""
}

// IntArg returns the named argument as an int64. JSON numbers decode as
// float64; numeric strings are accepted too. Absent or unparseable values
// yield 0.
func (t Task) IntArg(key string) int64 {
	switch v := t.Args[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
