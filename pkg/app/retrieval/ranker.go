package retrieval

import (
	"sort"

	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/sirupsen/logrus"
)

const (
	DefaultThreshold = 0.2
	DefaultTopK      = 5
)

//go:generate mockery --name=Ranker --dir=. --output=./mocks --filename=ranker_mock.go --case=underscore --with-expecter

type Ranker interface {
	Rank(query []float64, records []embedding.Record) []embedding.ScoredRecord
}

type ranker struct {
	logger    *logrus.Logger
	threshold float64
	topK      int
}

func NewRanker(logger *logrus.Logger, threshold float64, topK int) Ranker {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &ranker{
		logger:    logger,
		threshold: threshold,
		topK:      topK,
	}
}

// Rank scores every record against query and returns at most topK records whose
// similarity is strictly above the threshold, most similar first. Records with
// degenerate vectors are skipped. Exact ties keep their input order.
func (r *ranker) Rank(query []float64, records []embedding.Record) []embedding.ScoredRecord {
	scored := make([]embedding.ScoredRecord, 0, len(records))
	skipped := 0
	for _, rec := range records {
		sim, ok := CosineSimilarity(query, rec.Embedding)
		if !ok {
			skipped++
			r.logger.WithFields(logrus.Fields{
				"record_id":   rec.ID,
				"record_dims": len(rec.Embedding),
				"query_dims":  len(query),
			}).Warn("skipping record with degenerate or mismatched embedding")
			continue
		}
		scored = append(scored, embedding.ScoredRecord{Record: rec, Similarity: sim})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	out := make([]embedding.ScoredRecord, 0, r.topK)
	for _, s := range scored {
		if len(out) == r.topK || s.Similarity <= r.threshold {
			break
		}
		out = append(out, s)
	}

	r.logger.WithFields(logrus.Fields{
		"candidates": len(records),
		"skipped":    skipped,
		"selected":   len(out),
	}).Debug("ranked embedding records")

	return out
}
