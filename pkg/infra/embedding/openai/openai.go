package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/rdd6584/blogqa/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

const (
	DefaultModel          = "text-embedding-3-large"
	DefaultBaseURL        = "https://api.openai.com/v1"
	defaultRequestTimeout = 30 * time.Second
)

// Doer is the subset of *fasthttp.Client the service needs.
type Doer interface {
	DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error
}

type Option func(*embeddingService)

// WithCircuitBreaker routes every upstream call through breaker.
func WithCircuitBreaker(breaker httpx.CircuitBreaker) Option {
	return func(s *embeddingService) {
		s.breaker = breaker
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(s *embeddingService) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

type embeddingService struct {
	client  Doer
	logger  *logrus.Logger
	breaker httpx.CircuitBreaker
	timeout time.Duration
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingData struct {
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

type openAIEmbeddingResponse struct {
	Data  []embeddingData `json:"data"`
	Model string          `json:"model"`
}

func NewOpenAIEmbeddingService(client Doer, logger *logrus.Logger, opts ...Option) embedding.Creator {
	s := &embeddingService{
		client:  client,
		logger:  logger,
		timeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *embeddingService) Generate(
	ctx context.Context,
	text, model string,
	config *embedding.Config,
) (*embedding.Embedding, error) {
	if config == nil || config.Credentials.ApiKey == "" {
		return nil, fmt.Errorf("openai embeddings: API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pBytes, err := json.Marshal(embeddingRequest{
		Model: model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request payload: %w", err)
	}

	baseURL := DefaultBaseURL
	if config.BaseURL != "" {
		baseURL = strings.TrimSuffix(config.BaseURL, "/")
	}

	var res result
	call := func() error {
		res = s.post(ctx, baseURL+"/embeddings", config.Credentials.ApiKey, pBytes)
		if res.err != nil {
			return res.err
		}
		if res.status != fasthttp.StatusOK {
			s.logger.WithFields(logrus.Fields{
				"status":   res.status,
				"response": string(res.body),
			}).Error("non-OK response from embeddings API")
			err := fmt.Errorf("%w: %d", embedding.ErrProviderNonOKResponse, res.status)
			if !upstreamFault(res.status) {
				return httpx.Ignore(err)
			}
			return err
		}
		return nil
	}
	if s.breaker != nil {
		err = s.breaker.Execute(call)
	} else {
		err = call()
	}
	if err != nil {
		return nil, err
	}

	var embResp openAIEmbeddingResponse
	if err := json.Unmarshal(res.body, &embResp); err != nil {
		return nil, fmt.Errorf("failed to parse embeddings response: %w", err)
	}
	if len(embResp.Data) == 0 || len(embResp.Data[0].Embedding) == 0 {
		return nil, embedding.ErrEmptyEmbedding
	}

	return &embedding.Embedding{
		Model:     model,
		Value:     embResp.Data[0].Embedding,
		CreatedAt: time.Now(),
	}, nil
}

// upstreamFault reports whether status says the provider, not the request,
// is at fault. Only these count towards opening the breaker.
func upstreamFault(status int) bool {
	return status >= fasthttp.StatusInternalServerError || status == fasthttp.StatusTooManyRequests
}

type result struct {
	status int
	body   []byte
	err    error
}

// post runs the request on its own goroutine, which owns the pooled
// request and response, so a cancelled ctx never races with the transport.
func (s *embeddingService) post(ctx context.Context, url, apiKey string, payload []byte) result {
	resCh := make(chan result, 1)
	go func() {
		req := fasthttp.AcquireRequest()
		defer fasthttp.ReleaseRequest(req)
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(url)
		req.Header.SetMethod(fasthttp.MethodPost)
		req.Header.SetContentType("application/json")
		req.Header.Set(fasthttp.HeaderAcceptEncoding, httpx.AcceptEncoding)
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+apiKey)
		req.SetBody(payload)

		if err := s.client.DoTimeout(req, resp, s.timeout); err != nil {
			resCh <- result{err: err}
			return
		}
		body, _, err := httpx.DecodeChain(resp, resp.Body())
		if err != nil {
			resCh <- result{err: fmt.Errorf("failed to decode embeddings response body: %w", err)}
			return
		}
		resCh <- result{
			status: resp.StatusCode(),
			body:   append([]byte(nil), body...),
		}
	}()

	select {
	case <-ctx.Done():
		return result{err: ctx.Err()}
	case res := <-resCh:
		if res.err != nil {
			s.logger.WithError(res.err).Error("error performing HTTP request for embeddings")
		}
		return res
	}
}
