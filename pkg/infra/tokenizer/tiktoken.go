package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// DefaultEncoding is the GPT-3 family BPE vocabulary.
const DefaultEncoding = "r50k_base"

var loaderOnce sync.Once

type BPETokenizer struct {
	encoding *tiktoken.Tiktoken
}

// NewBPETokenizer loads the named encoding from the vocabularies bundled with
// the binary, so no network access is needed at startup.
func NewBPETokenizer(encoding string) (*BPETokenizer, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", encoding, err)
	}
	return &BPETokenizer{encoding: enc}, nil
}

func (t *BPETokenizer) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(t.encoding.Encode(text, nil, nil))
}
