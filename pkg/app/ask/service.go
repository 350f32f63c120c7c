package ask

import (
	"context"
	"strings"
	"time"

	"github.com/rdd6584/blogqa/pkg/app/contextbuilder"
	"github.com/rdd6584/blogqa/pkg/app/retrieval"
	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/rdd6584/blogqa/pkg/infra/providers"
	"github.com/sirupsen/logrus"
)

type Query struct {
	Prompt string `json:"prompt"`
}

type Source struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}

type Answer struct {
	Text          string          `json:"answer"`
	Sources       []Source        `json:"sources,omitempty"`
	ContextTokens int             `json:"-"`
	Usage         providers.Usage `json:"-"`
}

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=service_mock.go --case=underscore --with-expecter

type Service interface {
	Ask(ctx context.Context, query Query) (*Answer, error)
}

type service struct {
	creator         embedding.Creator
	embeddingConfig *embedding.Config
	repository      embedding.Repository
	ranker          retrieval.Ranker
	assembler       contextbuilder.Assembler
	requester       Requester
	logger          *logrus.Logger
}

func NewService(
	creator embedding.Creator,
	embeddingConfig *embedding.Config,
	repository embedding.Repository,
	ranker retrieval.Ranker,
	assembler contextbuilder.Assembler,
	requester Requester,
	logger *logrus.Logger,
) Service {
	return &service{
		creator:         creator,
		embeddingConfig: embeddingConfig,
		repository:      repository,
		ranker:          ranker,
		assembler:       assembler,
		requester:       requester,
		logger:          logger,
	}
}

// Ask runs the whole pipeline once. Steps run in order and the first
// failure ends the request; nothing is retried.
func (s *service) Ask(ctx context.Context, query Query) (*Answer, error) {
	prompt := strings.TrimSpace(query.Prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	start := time.Now()

	emb, err := s.creator.Generate(ctx, embedding.FlattenInput(prompt), s.embeddingConfig.Model, s.embeddingConfig)
	if err != nil {
		return nil, stageErr(StageEmbedding, err)
	}
	if emb == nil || len(emb.Value) == 0 {
		return nil, stageErr(StageEmbedding, embedding.ErrEmptyEmbedding)
	}

	records, err := s.repository.All(ctx)
	if err != nil {
		return nil, stageErr(StageStore, err)
	}

	ranked := s.ranker.Rank(emb.Value, records)
	assembled := s.assembler.Assemble(ranked)

	resp, err := s.requester.Request(ctx, assembled.Text, prompt)
	if err != nil {
		return nil, stageErr(StageCompletion, err)
	}

	answer := &Answer{
		Text:          resp.Response,
		Sources:       make([]Source, 0, len(assembled.Included)),
		ContextTokens: assembled.Tokens,
		Usage:         resp.Usage,
	}
	for _, rec := range assembled.Included {
		answer.Sources = append(answer.Sources, Source{
			ID:         rec.ID,
			Title:      rec.Title,
			Similarity: rec.Similarity,
		})
	}

	s.logger.WithFields(logrus.Fields{
		"records":        len(records),
		"ranked":         len(ranked),
		"included":       len(assembled.Included),
		"context_tokens": assembled.Tokens,
		"total_tokens":   resp.Usage.TotalTokens,
		"duration":       time.Since(start).String(),
	}).Info("question answered")
	return answer, nil
}
