package factory

import (
	"fmt"
	"time"

	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/rdd6584/blogqa/pkg/infra/embedding/gemini"
	"github.com/rdd6584/blogqa/pkg/infra/embedding/openai"
	"github.com/rdd6584/blogqa/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

const (
	OpenAIProvider = "openai"
	GeminiProvider = "gemini"
)

type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

type EmbeddingServiceLocator struct {
	logger     *logrus.Logger
	httpClient *fasthttp.Client
	breaker    *BreakerConfig
	timeout    time.Duration
}

// NewServiceLocator builds embedding creators. A nil breaker disables the
// circuit breaker on the HTTP based providers.
func NewServiceLocator(logger *logrus.Logger, httpClient *fasthttp.Client, breaker *BreakerConfig) *EmbeddingServiceLocator {
	return &EmbeddingServiceLocator{
		logger:     logger,
		httpClient: httpClient,
		breaker:    breaker,
	}
}

// WithTimeout bounds each HTTP embedding request. Zero keeps the client
// default.
func (l *EmbeddingServiceLocator) WithTimeout(timeout time.Duration) *EmbeddingServiceLocator {
	l.timeout = timeout
	return l
}

func (l *EmbeddingServiceLocator) GetService(provider string) (embedding.Creator, error) {
	switch provider {
	case OpenAIProvider, "":
		opts := []openai.Option{openai.WithTimeout(l.timeout)}
		if l.breaker != nil && l.breaker.MaxFailures > 0 {
			opts = append(opts, openai.WithCircuitBreaker(
				httpx.NewCircuitBreaker("openai-embeddings", l.breaker.OpenTimeout, l.breaker.MaxFailures, l.logger),
			))
		}
		return openai.NewOpenAIEmbeddingService(l.httpClient, l.logger, opts...), nil
	case GeminiProvider:
		return gemini.NewGeminiEmbeddingService(l.logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", embedding.ErrUnsupportedProvider, provider)
	}
}
