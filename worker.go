package redq

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Worker consumes one queue with a fixed number of goroutines, handing each
// popped item to a Handler. Pops use a bounded timeout so the loops can
// re-check the stop flag; handler and connection failures are logged and
// followed by a short backoff instead of a hot retry loop.
type Worker struct {
	queue      *Queue
	handler    Handler
	workers    int
	popTimeout time.Duration
	backoff    time.Duration
	log        zerolog.Logger

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type WorkerOption func(*Worker)

func WithWorkerCount(n int) WorkerOption {
	return func(w *Worker) { w.workers = n }
}

func WithPopTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) { w.popTimeout = d }
}

// WithErrorBackoff controls how long a loop pauses after a failed pop or
// handler error.
func WithErrorBackoff(d time.Duration) WorkerOption {
	return func(w *Worker) { w.backoff = d }
}

func WithLogger(log zerolog.Logger) WorkerOption {
	return func(w *Worker) { w.log = log }
}

func NewWorker(q *Queue, h Handler, opts ...WorkerOption) *Worker {
	w := &Worker{
		queue:      q,
		handler:    h,
		workers:    1,
		popTimeout: 5 * time.Second,
		backoff:    2 * time.Second,
		log:        zerolog.Nop(),
		stopCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	if w.workers < 1 {
		w.workers = 1
	}
	if w.popTimeout <= 0 {
		w.popTimeout = 5 * time.Second
	}
	return w
}

// Start launches the worker goroutines and returns immediately. Calling
// Start on a running worker is ignored with a warning.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		w.log.Warn().Str("queue", w.queue.Name()).Msg("worker already running")
		return
	}
	w.running = true
	w.mu.Unlock()

	w.log.Info().Str("queue", w.queue.Name()).Int("workers", w.workers).Msg("starting workers")
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.loop(ctx, i)
	}
}

// Stop signals every loop and waits for them to drain. A loop blocked in a
// pop returns once its pop timeout elapses.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

func (w *Worker) loop(ctx context.Context, id int) {
	defer w.wg.Done()
	log := w.log.With().Str("queue", w.queue.Name()).Int("worker", id).Logger()
	log.Info().Msg("worker started")
	defer log.Info().Msg("worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		default:
		}

		item, err := w.queue.Pop(ctx, w.popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Bool("connection", IsConnectionError(err)).Msg("pop failed")
			w.pause(ctx)
			continue
		}
		if item == nil {
			// Timed out empty; loop to re-check the stop flag.
			continue
		}

		if err := w.handler.HandleItem(ctx, w.queue.Name(), item); err != nil {
			log.Error().Err(err).Msg("handler failed")
			w.pause(ctx)
		}
	}
}

func (w *Worker) pause(ctx context.Context) {
	if w.backoff <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-w.stopCh:
	case <-time.After(w.backoff):
	}
}
