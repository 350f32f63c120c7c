package gemini

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"google.golang.org/genai"
)

const DefaultModel = "text-embedding-004"

type embeddingService struct {
	logger     *logrus.Logger
	clientPool *sync.Map
	sf         singleflight.Group
}

func NewGeminiEmbeddingService(logger *logrus.Logger) embedding.Creator {
	return &embeddingService{
		logger:     logger,
		clientPool: &sync.Map{},
	}
}

func (s *embeddingService) Generate(
	ctx context.Context,
	text, model string,
	config *embedding.Config,
) (*embedding.Embedding, error) {
	if config == nil || config.Credentials.ApiKey == "" {
		return nil, fmt.Errorf("gemini embeddings: API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	cli, err := s.getOrCreateClient(ctx, config.Credentials.ApiKey, config.BaseURL)
	if err != nil {
		return nil, err
	}

	resp, err := cli.Models.EmbedContent(ctx, model, genai.Text(text), nil)
	if err != nil {
		s.logger.WithError(err).Error("gemini embed content request failed")
		return nil, fmt.Errorf("%w: %w", embedding.ErrProviderNonOKResponse, err)
	}
	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
		return nil, embedding.ErrEmptyEmbedding
	}

	raw := resp.Embeddings[0].Values
	value := make([]float64, len(raw))
	for i, v := range raw {
		value[i] = float64(v)
	}
	return &embedding.Embedding{
		Model:     model,
		Value:     value,
		CreatedAt: time.Now(),
	}, nil
}

func (s *embeddingService) getOrCreateClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	key := apiKey + "|" + baseURL
	if v, ok := s.clientPool.Load(key); ok {
		if cli, ok := v.(*genai.Client); ok {
			return cli, nil
		}
	}
	v, err, _ := s.sf.Do(key, func() (any, error) {
		cfg := &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		if baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
		}
		cli, err := genai.NewClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		s.clientPool.Store(key, cli)
		return cli, nil
	})
	if err != nil {
		return nil, err
	}
	cli, ok := v.(*genai.Client)
	if !ok {
		return nil, fmt.Errorf("unexpected gemini client type %T", v)
	}
	return cli, nil
}
