package redq

import (
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/redis/go-redis/v9"
)

var (
	ErrConnection       = errors.New("redq: connection failed")
	ErrInvalidQueueName = errors.New("redq: invalid queue name")
	ErrInvalidKey       = errors.New("redq: invalid key")
	ErrInvalidPayload   = errors.New("redq: invalid payload")
)

// IsConnectionError reports whether err means the backing store is
// unreachable or the client is closed, as opposed to a command-level error
// such as WRONGTYPE.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConnection) || errors.Is(err, redis.ErrClosed) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
