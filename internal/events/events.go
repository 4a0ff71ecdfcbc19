// Package events publishes cross-context tasks. Contexts call the Publisher
// instead of importing each other, which keeps the dependency graph acyclic.
package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aura-studio/redq"
	"github.com/aura-studio/redq/internal/queues"
	"github.com/aura-studio/redq/internal/task"
)

type Publisher struct {
	conn *redq.Conn
	log  zerolog.Logger
}

func NewPublisher(conn *redq.Conn, log zerolog.Logger) *Publisher {
	return &Publisher{conn: conn, log: log}
}

// Publish pushes a task envelope onto the named queue.
func (p *Publisher) Publish(ctx context.Context, queueName, taskName string, args map[string]any) error {
	q, err := p.conn.Queue(queueName)
	if err != nil {
		return err
	}

	t := task.New(taskName, args)
	payload, err := t.Encode()
	if err != nil {
		return err
	}

	if _, err := q.Push(ctx, payload); err != nil {
		p.log.Error().Err(err).Str("task", taskName).Str("queue", queueName).Msg("publish failed")
		return err
	}
	p.log.Info().Str("task", taskName).Str("queue", queueName).Str("id", t.ID).Msg("task published")
	return nil
}

func (p *Publisher) GenerateReport(ctx context.Context, reportID int64) error {
	return p.Publish(ctx, queues.ReportGenerate, "generate_report", map[string]any{
		"report_id": reportID,
	})
}

func (p *Publisher) SendReport(ctx context.Context, userID, reportID int64) error {
	return p.Publish(ctx, queues.ReportSend, "send_report", map[string]any{
		"user_id":   userID,
		"report_id": reportID,
	})
}

func (p *Publisher) SendNotification(ctx context.Context, userID int64, message string) error {
	return p.Publish(ctx, queues.Notification, "send_notification", map[string]any{
		"user_id": userID,
		"message": message,
	})
}

func (p *Publisher) SendWelcomeEmail(ctx context.Context, userID int64, email string) error {
	return p.Publish(ctx, queues.EmailWelcome, "send_welcome_email", map[string]any{
		"user_id": userID,
		"email":   email,
	})
}
