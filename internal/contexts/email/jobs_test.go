package email

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/aura-studio/redq"
	"github.com/aura-studio/redq/internal/events"
	"github.com/aura-studio/redq/internal/queues"
	"github.com/aura-studio/redq/internal/task"
)

func testConn(t *testing.T) *redq.Conn {
	t.Helper()
	s := miniredis.RunT(t)
	host, portStr, err := net.SplitHostPort(s.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	conn, err := redq.Connect(context.Background(), redq.Endpoint{
		Host:        host,
		Port:        port,
		DialTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestDispatcher_CoversListenedQueues(t *testing.T) {
	conn := testConn(t)
	d := NewDispatcher(events.NewPublisher(conn, zerolog.Nop()), zerolog.Nop())

	require.ElementsMatch(t, []string{
		"send_welcome_email",
		"send_notification",
		"send_reset_password",
		"log_user_action",
	}, d.Names())
}

// The welcome email consumed off its queue must fan out the report chain
// and a notification, the same flow the producer demo exercises.
func TestWelcomeEmail_FansOut(t *testing.T) {
	conn := testConn(t)
	ctx := context.Background()

	ev := events.NewPublisher(conn, zerolog.Nop())
	d := NewDispatcher(ev, zerolog.Nop())

	require.NoError(t, ev.SendWelcomeEmail(ctx, 7, "u@example.com"))

	q, err := conn.Queue(queues.EmailWelcome)
	require.NoError(t, err)
	w := redq.NewWorker(q, d,
		redq.WithPopTimeout(100*time.Millisecond),
		redq.WithErrorBackoff(10*time.Millisecond),
	)
	w.Start(ctx)
	defer w.Stop()

	expect := map[string]string{
		queues.ReportGenerate: "generate_report",
		queues.ReportSend:     "send_report",
		queues.Notification:   "send_notification",
	}
	for queueName, taskName := range expect {
		out, err := conn.Queue(queueName)
		require.NoError(t, err)

		payload, err := out.Pop(ctx, 2*time.Second)
		require.NoError(t, err)
		require.NotNil(t, payload, "expected %s on %s", taskName, queueName)

		tk, err := task.Decode(payload)
		require.NoError(t, err)
		require.Equal(t, taskName, tk.Name)
	}
}
