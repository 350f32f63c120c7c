package mocks

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/mock"
)

type Converser struct {
	mock.Mock
}

func (m *Converser) Converse(
	ctx context.Context,
	params *bedrockruntime.ConverseInput,
	optFns ...func(*bedrockruntime.Options),
) (*bedrockruntime.ConverseOutput, error) {
	args := m.Called(ctx, params)
	out, ok := args.Get(0).(*bedrockruntime.ConverseOutput)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *bedrockruntime.ConverseOutput, got %T", args.Get(0))
	}
	return out, args.Error(1)
}
