package redq

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClient_InvalidKey(t *testing.T) {
	_, c := newTestRedis(t)

	_, err := NewClient(c, "")
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestClient_SetGetWithTTL(t *testing.T) {
	s, c := newTestRedis(t)
	ctx := context.Background()

	kv, err := NewClient(c, "k1")
	require.NoError(t, err)

	require.NoError(t, kv.Set(ctx, []byte("v1"), time.Second))

	got, err := kv.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got)

	s.FastForward(1500 * time.Millisecond)

	got, err = kv.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestClient_SetWithoutTTLPersists(t *testing.T) {
	s, c := newTestRedis(t)
	ctx := context.Background()

	kv, err := NewClient(c, "k2")
	require.NoError(t, err)

	require.NoError(t, kv.Set(ctx, []byte("v"), 0))
	s.FastForward(time.Hour)

	got, err := kv.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
}

func TestClient_HashPartialUpdate(t *testing.T) {
	_, c := newTestRedis(t)
	ctx := context.Background()

	kv, err := NewClient(c, "h1")
	require.NoError(t, err)

	require.NoError(t, kv.HSet(ctx, "f1", []byte("v1"), 0))
	require.NoError(t, kv.HSet(ctx, "f2", []byte("v2"), 0))

	all, err := kv.HGetAll(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string][]byte{"f1": []byte("v1"), "f2": []byte("v2")}, all)

	require.NoError(t, kv.HSet(ctx, "f1", []byte("v1b"), 0))

	got, err := kv.HGet(ctx, "f1")
	require.NoError(t, err)
	require.Equal(t, []byte("v1b"), got)

	got, err = kv.HGet(ctx, "f2")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), got)
}

func TestClient_HashTTLCoversRecord(t *testing.T) {
	s, c := newTestRedis(t)
	ctx := context.Background()

	kv, err := NewClient(c, "h2")
	require.NoError(t, err)

	require.NoError(t, kv.HSet(ctx, "f1", []byte("v1"), time.Second))

	s.FastForward(1500 * time.Millisecond)

	all, err := kv.HGetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestClient_AbsentKeyNoOps(t *testing.T) {
	_, c := newTestRedis(t)
	ctx := context.Background()

	kv, err := NewClient(c, "missing")
	require.NoError(t, err)

	require.NoError(t, kv.Delete(ctx))
	require.NoError(t, kv.Expire(ctx, time.Minute))

	got, err := kv.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, got)

	field, err := kv.HGet(ctx, "f")
	require.NoError(t, err)
	require.Nil(t, field)

	all, err := kv.HGetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	exists, err := kv.Exists(ctx)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestClient_ExistsAndDelete(t *testing.T) {
	_, c := newTestRedis(t)
	ctx := context.Background()

	kv, err := NewClient(c, "k3")
	require.NoError(t, err)

	require.NoError(t, kv.Set(ctx, []byte("v"), 0))

	exists, err := kv.Exists(ctx)
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, kv.Delete(ctx))

	exists, err = kv.Exists(ctx)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestClient_ExpireExistingKey(t *testing.T) {
	s, c := newTestRedis(t)
	ctx := context.Background()

	kv, err := NewClient(c, "k4")
	require.NoError(t, err)

	require.NoError(t, kv.Set(ctx, []byte("v"), 0))
	require.NoError(t, kv.Expire(ctx, time.Second))

	s.FastForward(1500 * time.Millisecond)

	got, err := kv.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestClient_WrongTypePassesThrough(t *testing.T) {
	_, c := newTestRedis(t)
	ctx := context.Background()

	kv, err := NewClient(c, "k5")
	require.NoError(t, err)

	require.NoError(t, kv.Set(ctx, []byte("scalar"), 0))

	_, err = kv.HGet(ctx, "f")
	require.Error(t, err)
	require.False(t, IsConnectionError(err))
}
