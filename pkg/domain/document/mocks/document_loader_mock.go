package mocks

import (
	"context"
	"fmt"

	"github.com/rdd6584/blogqa/pkg/domain/document"
	"github.com/stretchr/testify/mock"
)

type Loader struct {
	mock.Mock
}

func (m *Loader) Load(ctx context.Context) ([]document.Document, error) {
	args := m.Called(ctx)
	docs, ok := args.Get(0).([]document.Document)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected []document.Document, got %T", args.Get(0))
	}
	return docs, args.Error(1)
}
