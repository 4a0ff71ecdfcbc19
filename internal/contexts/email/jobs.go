// Package email holds the email context's job functions.
package email

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aura-studio/redq/internal/events"
	"github.com/aura-studio/redq/internal/task"
)

// NewDispatcher registers the email jobs. The welcome email kicks off the
// report chain through the event publisher, the way the original flow
// fans out after a signup.
func NewDispatcher(ev *events.Publisher, log zerolog.Logger) *task.Dispatcher {
	d := task.NewDispatcher()

	d.Register("send_welcome_email", func(ctx context.Context, t task.Task) error {
		userID := t.IntArg("user_id")
		addr := t.StringArg("email")
		log.Info().Int64("user_id", userID).Str("email", addr).Msg("sending welcome email")

		if err := ev.GenerateReport(ctx, 9999); err != nil {
			return err
		}
		if err := ev.SendReport(ctx, userID, 9999); err != nil {
			return err
		}
		return ev.SendNotification(ctx, userID, "welcome email delivered")
	})

	d.Register("send_notification", func(_ context.Context, t task.Task) error {
		log.Info().
			Int64("user_id", t.IntArg("user_id")).
			Str("message", t.StringArg("message")).
			Msg("sending notification")
		return nil
	})

	d.Register("send_reset_password", func(_ context.Context, t task.Task) error {
		log.Info().
			Int64("user_id", t.IntArg("user_id")).
			Str("email", t.StringArg("email")).
			Msg("sending password reset email")
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
