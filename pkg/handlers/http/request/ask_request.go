package request

import (
	"errors"
	"strings"
)

var ErrMissingPrompt = errors.New("prompt is required")

type AskRequest struct {
	Prompt string `json:"prompt"`
}

func (r *AskRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrMissingPrompt
	}
	return nil
}
