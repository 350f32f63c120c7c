package embedding

import (
	"fmt"
	"strings"
)

// Record is one blog post as persisted in the embedding file.
type Record struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Embedding []float64 `json:"embedding"`
}

type ScoredRecord struct {
	Record
	Similarity float64 `json:"similarity"`
}

func (r *Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.Content) == "" {
		return fmt.Errorf("%w: content is required for record %s", ErrInvalidRecord, r.ID)
	}
	if len(r.Embedding) == 0 {
		return fmt.Errorf("%w: embedding is empty for record %s", ErrInvalidRecord, r.ID)
	}
	return nil
}

// FlattenInput replaces newlines with spaces before text is embedded.
func FlattenInput(text string) string {
	return strings.ReplaceAll(text, "\n", " ")
}
