package data

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
		"process_data",
		"analyze_data",
		"export_data",
		"log_system_event",
	}, d.Names())
}

func TestProcessData_NotifiesUser(t *testing.T) {
	conn := testConn(t)
	ctx := context.Background()

	d := NewDispatcher(events.NewPublisher(conn, zerolog.Nop()), zerolog.Nop())

	payload, err := task.New("process_data", map[string]any{
		"dataset": "orders",
		"rows":    1200,
		"user_id": 7,
	}).Encode()
	require.NoError(t, err)
	require.NoError(t, d.HandleItem(ctx, queues.DataProcess, payload))

	q, err := conn.Queue(queues.Notification)
	require.NoError(t, err)
	out, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, out)

	tk, err := task.Decode(out)
	require.NoError(t, err)
	require.Equal(t, "send_notification", tk.Name)
	require.EqualValues(t, 7, tk.IntArg("user_id"))
}
