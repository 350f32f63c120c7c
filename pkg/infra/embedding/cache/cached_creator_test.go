package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	rediscache "github.com/rdd6584/blogqa/pkg/cache"
	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/rdd6584/blogqa/pkg/domain/embedding/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

func TestKey_IsStablePerModelAndText(t *testing.T) {
	assert.Equal(t, Key("m", "q"), Key("m", "q"))
	assert.NotEqual(t, Key("m", "q"), Key("m2", "q"))
	assert.NotEqual(t, Key("m", "q"), Key("m", "q2"))
	assert.Contains(t, Key("m", "q"), "blogqa:embedding:")
}

func TestCachedCreator_Hit(t *testing.T) {
	db, rmock := redismock.NewClientMock()
	next := new(mocks.Creator)
	creator := NewCachedCreator(next, rediscache.NewCacheWithClient(db), time.Hour, silentLogger())

	rmock.ExpectGet(Key("m", "q")).SetVal("[0.5,0.5]")

	emb, err := creator.Generate(context.Background(), "q", "m", &embedding.Config{})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, emb.Value)
	next.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestCachedCreator_MissStores(t *testing.T) {
	db, rmock := redismock.NewClientMock()
	next := new(mocks.Creator)
	cfg := &embedding.Config{Model: "m"}
	creator := NewCachedCreator(next, rediscache.NewCacheWithClient(db), time.Hour, silentLogger())

	key := Key("m", "q")
	rmock.ExpectGet(key).RedisNil()
	rmock.ExpectSet(key, "[1,2]", time.Hour).SetVal("OK")
	next.On("Generate", mock.Anything, "q", "m", cfg).Return(&embedding.Embedding{Value: []float64{1, 2}}, nil).Once()

	emb, err := creator.Generate(context.Background(), "q", "m", cfg)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, emb.Value)
	next.AssertExpectations(t)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestCachedCreator_RedisDownFallsThrough(t *testing.T) {
	db, rmock := redismock.NewClientMock()
	next := new(mocks.Creator)
	creator := NewCachedCreator(next, rediscache.NewCacheWithClient(db), time.Hour, silentLogger())

	key := Key("m", "q")
	rmock.ExpectGet(key).SetErr(errors.New("dial tcp: refused"))
	rmock.ExpectSet(key, "[3]", time.Hour).SetErr(errors.New("dial tcp: refused"))
	next.On("Generate", mock.Anything, "q", "m", mock.Anything).Return(&embedding.Embedding{Value: []float64{3}}, nil)

	emb, err := creator.Generate(context.Background(), "q", "m", &embedding.Config{})
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, emb.Value)
}

func TestCachedCreator_UpstreamErrorIsNotCached(t *testing.T) {
	db, rmock := redismock.NewClientMock()
	next := new(mocks.Creator)
	creator := NewCachedCreator(next, rediscache.NewCacheWithClient(db), time.Hour, silentLogger())

	rmock.ExpectGet(Key("m", "q")).RedisNil()
	next.On("Generate", mock.Anything, "q", "m", mock.Anything).Return(nil, embedding.ErrProviderNonOKResponse)

	_, err := creator.Generate(context.Background(), "q", "m", &embedding.Config{})
	assert.ErrorIs(t, err, embedding.ErrProviderNonOKResponse)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestCachedCreator_EmptyUpstreamResultIsNotCached(t *testing.T) {
	db, rmock := redismock.NewClientMock()
	next := new(mocks.Creator)
	creator := NewCachedCreator(next, rediscache.NewCacheWithClient(db), time.Hour, silentLogger())

	rmock.ExpectGet(Key("m", "q")).RedisNil()
	next.On("Generate", mock.Anything, "q", "m", mock.Anything).Return(nil, nil)

	emb, err := creator.Generate(context.Background(), "q", "m", &embedding.Config{})
	assert.Nil(t, emb)
	assert.ErrorIs(t, err, embedding.ErrEmptyEmbedding)
	assert.NoError(t, rmock.ExpectationsWereMet())
}
