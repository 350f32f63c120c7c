package mocks

import (
	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/stretchr/testify/mock"
)

type Ranker struct {
	mock.Mock
}

func (m *Ranker) Rank(query []float64, records []embedding.Record) []embedding.ScoredRecord {
	args := m.Called(query, records)
	scored, _ := args.Get(0).([]embedding.ScoredRecord) //nolint:errcheck
	return scored
}
