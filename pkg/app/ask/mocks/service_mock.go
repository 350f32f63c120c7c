package mocks

import (
	"context"
	"fmt"

	"github.com/rdd6584/blogqa/pkg/app/ask"
	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) Ask(ctx context.Context, query ask.Query) (*ask.Answer, error) {
	args := m.Called(ctx, query)
	answer, ok := args.Get(0).(*ask.Answer)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *ask.Answer, got %T", args.Get(0))
	}
	return answer, args.Error(1)
}
