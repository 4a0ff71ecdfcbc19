package redq

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDialTimeout = 5 * time.Second

// Endpoint identifies one Redis server and database.
type Endpoint struct {
	Host     string
	Port     int
	Password string
	DB       int

	// DialTimeout bounds connection establishment, including the initial
	// PING. Zero means the default of 5s.
	DialTimeout time.Duration
}

func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// EndpointFromEnv reads the connection settings from REDIS_HOST, REDIS_PORT,
// REDIS_DB and REDIS_PASSWORD, defaulting to localhost:6379 db 0.
func EndpointFromEnv() Endpoint {
	return Endpoint{
		Host:     envString("REDIS_HOST", "localhost"),
		Port:     envInt("REDIS_PORT", 6379),
		DB:       envInt("REDIS_DB", 0),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
}

func envString(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Conn owns the pooled client for one endpoint and hands out per-name queue
// and per-key value handles. All handles share the pool; the go-redis client
// is safe for concurrent use.
type Conn struct {
	client   *redis.Client
	endpoint Endpoint
	opts     []Option

	mu     sync.Mutex
	queues map[string]*Queue
	keys   map[string]*Client
}

type connKey struct {
	addr     string
	db       int
	password string
}

var (
	connMu sync.Mutex
	conns  = map[connKey]*Conn{}
)

// Connect returns the process-wide connection for the endpoint, dialing on
// first use. Repeated calls with the same endpoint return the same *Conn.
// The dial is verified with a PING bounded by the endpoint's DialTimeout;
// an unreachable store yields an error wrapping ErrConnection.
func Connect(ctx context.Context, ep Endpoint, opts ...Option) (*Conn, error) {
	key := connKey{addr: ep.Addr(), db: ep.DB, password: ep.Password}

	connMu.Lock()
	defer connMu.Unlock()
	if c, ok := conns[key]; ok {
		return c, nil
	}

	dial := ep.DialTimeout
	if dial <= 0 {
		dial = defaultDialTimeout
	}
	client := redis.NewClient(&redis.Options{
		Addr:        ep.Addr(),
		Password:    ep.Password,
		DB:          ep.DB,
		DialTimeout: dial,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dial)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %s db %d: %v", ErrConnection, ep.Addr(), ep.DB, err)
	}

	c := &Conn{
		client:   client,
		endpoint: ep,
		opts:     opts,
		queues:   make(map[string]*Queue),
		keys:     make(map[string]*Client),
	}
	conns[key] = c
	return c, nil
}

func (c *Conn) Endpoint() Endpoint { return c.endpoint }

// Client exposes the underlying go-redis client for callers needing commands
// this layer does not wrap.
func (c *Conn) Client() *redis.Client { return c.client }

// Ping probes liveness. A dead connection is reported as ErrConnection; the
// caller decides whether to tear down and reconnect.
func (c *Conn) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Close tears down the pooled client and removes the endpoint from the
// registry so a later Connect dials fresh. Existing handles become unusable.
func (c *Conn) Close() error {
	key := connKey{addr: c.endpoint.Addr(), db: c.endpoint.DB, password: c.endpoint.Password}
	connMu.Lock()
	if conns[key] == c {
		delete(conns, key)
	}
	connMu.Unlock()
	return c.client.Close()
}

// Queue returns the singleton queue handle for name. Repeated calls with the
// same name return the same *Queue.
func (c *Conn) Queue(name string) (*Queue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if q, ok := c.queues[name]; ok {
		return q, nil
	}
	q, err := NewQueue(c.client, name, c.opts...)
	if err != nil {
		return nil, err
	}
	c.queues[name] = q
	return q, nil
}

// Key returns the singleton value handle for key. Repeated calls with the
// same key return the same *Client.
func (c *Conn) Key(key string) (*Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cl, ok := c.keys[key]; ok {
		return cl, nil
	}
	cl, err := NewClient(c.client, key, c.opts...)
	if err != nil {
		return nil, err
	}
	c.keys[key] = cl
	return cl, nil
}
