// Package redq provides a small FIFO queue and key-value layer on Redis.
//
// It uses:
// - Redis List for per-name FIFO queues (RPUSH / BLPOP)
// - Redis String and Hash for per-key values and field maps, with TTL
// - one pooled connection per endpoint, shared by every queue and key handle
//
// Pop removes the item from the store before the caller processes it. There
// is no acknowledgment or requeue: a consumer that fails between Pop and
// finishing its work loses the item at this layer.
package redq
