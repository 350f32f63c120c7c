package ask

import (
	"context"
	"fmt"
	"strings"

	"github.com/rdd6584/blogqa/pkg/infra/providers"
	"github.com/sirupsen/logrus"
)

const (
	DefaultModel          = "gpt-4o-mini"
	DefaultMaxTokens      = 512
	DefaultFallbackPhrase = "죄송하지만, 해당 내용은 알 수 없어요! 이 블로그에 관한 내용만 질문해주세요!"
	NoAnswer              = "No answer provided."

	persona = "You are a very enthusiastic representative who loves to help people!"
)

type RequesterConfig struct {
	Model          string
	BaseURL        string
	MaxTokens      int
	Temperature    float64
	FallbackPhrase string
	Credentials    providers.Credentials
}

//go:generate mockery --name=Requester --dir=. --output=./mocks --filename=requester_mock.go --case=underscore --with-expecter

type Requester interface {
	Request(ctx context.Context, contextText, question string) (*providers.CompletionResponse, error)
}

type requester struct {
	client providers.Client
	config *providers.Config
	logger *logrus.Logger
}

func NewRequester(client providers.Client, cfg RequesterConfig, logger *logrus.Logger) Requester {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.FallbackPhrase == "" {
		cfg.FallbackPhrase = DefaultFallbackPhrase
	}
	return &requester{
		client: client,
		config: &providers.Config{
			Credentials:  cfg.Credentials,
			Model:        cfg.Model,
			BaseURL:      cfg.BaseURL,
			MaxTokens:    cfg.MaxTokens,
			Temperature:  cfg.Temperature,
			SystemPrompt: SystemInstruction(cfg.FallbackPhrase),
		},
		logger: logger,
	}
}

// SystemInstruction is the fixed instruction sent with every question.
func SystemInstruction(fallbackPhrase string) string {
	return providers.FormatInstructions(persona, []string{
		"Given the following sections from the blog, answer the question using only that information.",
		"Remove markdown syntax such as '##' or '**' from the answer and reply in plain text.",
		fmt.Sprintf("If you are unsure and the answer is not explicitly written in the sections, say %q", fallbackPhrase),
	})
}

// UserMessage places the assembled context and the question in the user turn.
func UserMessage(contextText, question string) string {
	return fmt.Sprintf("Context sections:\n%s\n\nQuestion: \"\"\"\n%s\n\"\"\"", contextText, question)
}

// Request returns the model's trimmed answer. An empty answer is replaced
// with NoAnswer rather than reported as an error.
func (r *requester) Request(ctx context.Context, contextText, question string) (*providers.CompletionResponse, error) {
	resp, err := r.client.Ask(ctx, r.config, UserMessage(contextText, question))
	if err != nil {
		return nil, err
	}
	resp.Response = strings.TrimSpace(resp.Response)
	if resp.Response == "" {
		r.logger.WithField("model", r.config.Model).Warn("empty completion, using fallback answer")
		resp.Response = NoAnswer
	}
	return resp, nil
}
