package retrieval

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

func record(id string, vec ...float64) embedding.Record {
	return embedding.Record{ID: id, Title: id, Content: "content of " + id, Embedding: vec}
}

func TestRanker_SortsDescendingAndFiltersThreshold(t *testing.T) {
	r := NewRanker(newTestLogger(), DefaultThreshold, DefaultTopK)

	query := []float64{1, 0}
	records := []embedding.Record{
		record("orthogonal", 0, 1),
		record("close", 0.9, 0.1),
		record("exact", 2, 0),
		record("opposite", -1, 0),
		record("medium", 0.5, 0.5),
	}

	ranked := r.Rank(query, records)

	require.Len(t, ranked, 3)
	assert.Equal(t, "exact", ranked[0].ID)
	assert.Equal(t, "close", ranked[1].ID)
	assert.Equal(t, "medium", ranked[2].ID)
	assert.InDelta(t, 1.0, ranked[0].Similarity, 1e-9)
}

func TestRanker_ThresholdIsExclusive(t *testing.T) {
	r := NewRanker(newTestLogger(), 0.6, DefaultTopK)

	// (1,0)·(3,4) / 5 == 0.6
	records := []embedding.Record{
		record("at-threshold", 3, 4),
		record("above", 1, 0.1),
	}

	ranked := r.Rank([]float64{1, 0}, records)

	for _, s := range ranked {
		assert.Greater(t, s.Similarity, 0.6)
	}
	require.Len(t, ranked, 1)
	assert.Equal(t, "above", ranked[0].ID)
}

func TestRanker_CapsAtTopK(t *testing.T) {
	r := NewRanker(newTestLogger(), DefaultThreshold, DefaultTopK)

	records := make([]embedding.Record, 0, 50)
	for i := 0; i < 50; i++ {
		records = append(records, record(fmt.Sprintf("doc-%d", i), 1, float64(i)/100))
	}

	ranked := r.Rank([]float64{1, 0}, records)

	require.Len(t, ranked, DefaultTopK)
	assert.Equal(t, "doc-0", ranked[0].ID)
}

func TestRanker_StableForTies(t *testing.T) {
	r := NewRanker(newTestLogger(), DefaultThreshold, DefaultTopK)

	records := []embedding.Record{
		record("first", 1, 1),
		record("second", 1, 1),
		record("third", 1, 1),
	}

	ranked := r.Rank([]float64{1, 1}, records)

	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{ranked[0].ID, ranked[1].ID, ranked[2].ID})
}

func TestRanker_SkipsDegenerateRecords(t *testing.T) {
	r := NewRanker(newTestLogger(), DefaultThreshold, DefaultTopK)

	records := []embedding.Record{
		record("zero", 0, 0),
		record("short", 1),
		record("ok", 1, 0),
	}

	ranked := r.Rank([]float64{1, 0}, records)

	require.Len(t, ranked, 1)
	assert.Equal(t, "ok", ranked[0].ID)
}

func TestRanker_NothingAboveThreshold(t *testing.T) {
	r := NewRanker(newTestLogger(), DefaultThreshold, DefaultTopK)

	records := []embedding.Record{
		record("a", 0, 1),
		record("b", -1, 0.1),
	}

	ranked := r.Rank([]float64{1, 0}, records)

	assert.Empty(t, ranked)
	assert.NotNil(t, ranked)
}

func TestRanker_PropertiesHoldOnRandomInput(t *testing.T) {
	r := NewRanker(newTestLogger(), DefaultThreshold, DefaultTopK)
	rng := rand.New(rand.NewSource(42))

	randomVec := func() []float64 {
		v := make([]float64, 16)
		for i := range v {
			v[i] = rng.Float64()*2 - 1
		}
		return v
	}

	for run := 0; run < 20; run++ {
		query := randomVec()
		records := make([]embedding.Record, 0, 200)
		for i := 0; i < 200; i++ {
			records = append(records, record(fmt.Sprintf("r%d", i), randomVec()...))
		}

		ranked := r.Rank(query, records)

		assert.LessOrEqual(t, len(ranked), DefaultTopK)
		for i := range ranked {
			assert.Greater(t, ranked[i].Similarity, DefaultThreshold)
			if i > 0 {
				assert.GreaterOrEqual(t, ranked[i-1].Similarity, ranked[i].Similarity)
			}
		}
	}
}
