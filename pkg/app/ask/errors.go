package ask

import (
	"errors"
	"fmt"
)

var ErrEmptyPrompt = errors.New("prompt is required")

type Stage string

const (
	StageEmbedding  Stage = "embedding"
	StageStore      Stage = "store"
	StageCompletion Stage = "completion"
)

// StageError records which step of the pipeline failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the failing stage of err, or "" when err did not come
// from the pipeline.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
