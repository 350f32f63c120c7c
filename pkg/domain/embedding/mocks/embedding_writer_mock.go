package mocks

import (
	"context"

	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/stretchr/testify/mock"
)

type Writer struct {
	mock.Mock
}

func (m *Writer) WriteAll(ctx context.Context, records []embedding.Record) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}
