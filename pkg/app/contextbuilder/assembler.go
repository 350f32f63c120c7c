package contextbuilder

import (
	"strings"

	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTokenBudget = 5000
	Separator          = "\n---\n"
)

//go:generate mockery --name=Tokenizer --dir=. --output=./mocks --filename=tokenizer_mock.go --case=underscore --with-expecter

type Tokenizer interface {
	Count(text string) int
}

type Result struct {
	Text     string
	Tokens   int
	Included []embedding.ScoredRecord
}

//go:generate mockery --name=Assembler --dir=. --output=./mocks --filename=assembler_mock.go --case=underscore --with-expecter

type Assembler interface {
	Assemble(ranked []embedding.ScoredRecord) Result
}

type assembler struct {
	logger    *logrus.Logger
	tokenizer Tokenizer
	budget    int
}

func NewAssembler(logger *logrus.Logger, tokenizer Tokenizer, budget int) Assembler {
	if budget <= 0 {
		budget = DefaultTokenBudget
	}
	return &assembler{
		logger:    logger,
		tokenizer: tokenizer,
		budget:    budget,
	}
}

// Assemble concatenates ranked contents in order while the running token count
// stays below the budget. The record that reaches the budget is dropped whole
// and nothing after it is considered.
func (a *assembler) Assemble(ranked []embedding.ScoredRecord) Result {
	var (
		b        strings.Builder
		tokens   int
		included = make([]embedding.ScoredRecord, 0, len(ranked))
	)

	for _, rec := range ranked {
		count := a.tokenizer.Count(rec.Content)
		if tokens+count >= a.budget {
			a.logger.WithFields(logrus.Fields{
				"record_id": rec.ID,
				"tokens":    tokens,
				"candidate": count,
				"budget":    a.budget,
			}).Debug("token budget reached")
			break
		}
		tokens += count
		b.WriteString(strings.TrimSpace(rec.Content))
		b.WriteString(Separator)
		included = append(included, rec)
	}

	return Result{
		Text:     b.String(),
		Tokens:   tokens,
		Included: included,
	}
}
