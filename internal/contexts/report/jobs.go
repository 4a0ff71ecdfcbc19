// Package report holds the report context's job functions.
package report

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aura-studio/redq/internal/events"
	"github.com/aura-studio/redq/internal/task"
)

// NewDispatcher registers the report jobs. Generated reports are handed back
// to the email context through the notification queue.
func NewDispatcher(ev *events.Publisher, log zerolog.Logger) *task.Dispatcher {
	d := task.NewDispatcher()

	d.Register("generate_report", func(_ context.Context, t task.Task) error {
		log.Info().Int64("report_id", t.IntArg("report_id")).Msg("generating report")
		return nil
	})

	d.Register("send_report", func(ctx context.Context, t task.Task) error {
		userID := t.IntArg("user_id")
		log.Info().
			Int64("user_id", userID).
			Int64("report_id", t.IntArg("report_id")).
			Msg("sending report")
		return ev.SendNotification(ctx, userID, "your report is ready")
	})

	d.Register("send_notification", func(_ context.Context, t task.Task) error {
		log.Info().
			Int64("user_id", t.IntArg("user_id")).
			Str("message", t.StringArg("message")).
			Msg("sending notification")
		return nil
	})

	d.Register("log_user_action", func(_ context.Context, t task.Task) error {
		log.Info().
			Int64("user_id", t.IntArg("user_id")).
			Str("action", t.StringArg("action")).
			Msg("user action")
		return nil
	})

	return d
}
