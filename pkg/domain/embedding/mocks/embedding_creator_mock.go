package mocks

import (
	"context"
	"fmt"

	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/stretchr/testify/mock"
)

type Creator struct {
	mock.Mock
}

func (m *Creator) Generate(ctx context.Context, text, model string, config *embedding.Config) (*embedding.Embedding, error) {
	args := m.Called(ctx, text, model, config)
	emb, ok := args.Get(0).(*embedding.Embedding)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *embedding.Embedding, got %T", args.Get(0))
	}
	return emb, args.Error(1)
}
