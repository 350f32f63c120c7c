package mocks

import (
	"github.com/rdd6584/blogqa/pkg/app/contextbuilder"
	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/stretchr/testify/mock"
)

type Assembler struct {
	mock.Mock
}

func (m *Assembler) Assemble(ranked []embedding.ScoredRecord) contextbuilder.Result {
	args := m.Called(ranked)
	res, _ := args.Get(0).(contextbuilder.Result) //nolint:errcheck
	return res
}
