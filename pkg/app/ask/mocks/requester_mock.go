package mocks

import (
	"context"
	"fmt"

	"github.com/rdd6584/blogqa/pkg/infra/providers"
	"github.com/stretchr/testify/mock"
)

type Requester struct {
	mock.Mock
}

func (m *Requester) Request(ctx context.Context, contextText, question string) (*providers.CompletionResponse, error) {
	args := m.Called(ctx, contextText, question)
	resp, ok := args.Get(0).(*providers.CompletionResponse)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *providers.CompletionResponse, got %T", args.Get(0))
	}
	return resp, args.Error(1)
}
