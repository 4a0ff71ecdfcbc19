// Package data holds the data context's job functions.
package data

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aura-studio/redq/internal/events"
	"github.com/aura-studio/redq/internal/task"
)

// NewDispatcher registers the data-processing jobs.
func NewDispatcher(ev *events.Publisher, log zerolog.Logger) *task.Dispatcher {
	d := task.NewDispatcher()

	d.Register("process_data", func(ctx context.Context, t task.Task) error {
		log.Info().
			Str("dataset", t.StringArg("dataset")).
			Int64("rows", t.IntArg("rows")).
			Msg("processing dataset")
		return ev.SendNotification(ctx, t.IntArg("user_id"), "dataset processed")
	})

	d.Register("analyze_data", func(_ context.Context, t task.Task) error {
		log.Info().Str("dataset", t.StringArg("dataset")).Msg("analyzing dataset")
		return nil
	})

	d.Register("export_data", func(_ context.Context, t task.Task) error {
		log.Info().
			Str("dataset", t.StringArg("dataset")).
			Str("format", t.StringArg("format")).
			Msg("exporting dataset")
		return nil
	})

	d.Register("log_system_event", func(_ context.Context, t task.Task) error {
		log.Info().Str("event", t.StringArg("event")).Msg("system event")
		return nil
	})

	return d
}
