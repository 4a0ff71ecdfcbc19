package task

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Func executes one decoded task.
type Func func(ctx context.Context, t Task) error

// Dispatcher routes tasks to registered functions by task name. It
// implements redq.Handler, so one dispatcher can serve every queue a
// context listens on.
type Dispatcher struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{funcs: make(map[string]Func)}
}

// Register binds a task name to a function. Registering the same name twice
// panics; names are wiring, not runtime input.
func (d *Dispatcher) Register(name string, fn Func) {
	if name == "" || fn == nil {
		panic("task: Register requires a name and a function")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.funcs[name]; dup {
		panic(fmt.Sprintf("task: %q already registered", name))
	}
	d.funcs[name] = fn
}

// Names returns the registered task names, sorted.
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.funcs))
	for name := range d.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Dispatcher) HandleItem(ctx context.Context, queue string, payload []byte) error {
	t, err := Decode(payload)
	if err != nil {
		return err
	}

	d.mu.RLock()
	fn, ok := d.funcs[t.Name]
	d.mu.RUnlock()
	if !ok {
		return fmt.Errorf("task %q from queue %q: no registered function", t.Name, queue)
	}
	return fn(ctx, t)
}
