package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	rediscache "github.com/rdd6584/blogqa/pkg/cache"
	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/sirupsen/logrus"
)

const keyPattern = "blogqa:embedding:%s"

// Store is the subset of *cache.Cache used for query embeddings.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
}

type cachedCreator struct {
	next   embedding.Creator
	store  Store
	ttl    time.Duration
	logger *logrus.Logger
}

// NewCachedCreator memoises query embeddings in store. Cache failures are
// logged and fall through to next, so results never depend on the cache.
func NewCachedCreator(next embedding.Creator, store Store, ttl time.Duration, logger *logrus.Logger) embedding.Creator {
	return &cachedCreator{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

func Key(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return fmt.Sprintf(keyPattern, hex.EncodeToString(sum[:]))
}

func (c *cachedCreator) Generate(
	ctx context.Context,
	text, model string,
	config *embedding.Config,
) (*embedding.Embedding, error) {
	key := Key(model, text)

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var value []float64
		if jerr := json.Unmarshal([]byte(raw), &value); jerr == nil && len(value) > 0 {
			return &embedding.Embedding{
				Model:     model,
				Value:     value,
				CreatedAt: time.Now(),
			}, nil
		}
		c.logger.WithField("key", key).Warn("discarding unreadable cached embedding")
	case !errors.Is(err, rediscache.ErrMiss):
		c.logger.WithError(err).Warn("embedding cache lookup failed")
	}

	emb, err := c.next.Generate(ctx, text, model, config)
	if err != nil {
		return nil, err
	}
	if emb == nil || len(emb.Value) == 0 {
		return nil, embedding.ErrEmptyEmbedding
	}

	if payload, jerr := json.Marshal(emb.Value); jerr == nil {
		if serr := c.store.Set(ctx, key, string(payload), c.ttl); serr != nil {
			c.logger.WithError(serr).Warn("failed to store embedding in cache")
		}
	}
	return emb, nil
}
