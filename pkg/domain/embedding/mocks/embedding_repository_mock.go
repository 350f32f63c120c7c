package mocks

import (
	"context"
	"fmt"

	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) All(ctx context.Context) ([]embedding.Record, error) {
	args := m.Called(ctx)
	records, ok := args.Get(0).([]embedding.Record)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected []embedding.Record, got %T", args.Get(0))
	}
	return records, args.Error(1)
}
