package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSetDelete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewCacheWithClient(db)
	ctx := context.Background()

	mock.ExpectSet("k", "v", time.Minute).SetVal("OK")
	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	mock.ExpectGet("k").SetVal("v")
	val, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	mock.ExpectDel("k").SetVal(1)
	require.NoError(t, c.Delete(ctx, "k"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_GetMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewCacheWithClient(db)

	mock.ExpectGet("absent").RedisNil()
	_, err := c.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrMiss)

	mock.ExpectGet("broken").SetErr(errors.New("connection reset"))
	_, err = c.Get(context.Background(), "broken")
	assert.ErrorContains(t, err, "connection reset")
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestCache_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, NewCacheWithClient(db).Ping(context.Background()))
}
