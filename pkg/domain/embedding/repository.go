package embedding

import (
	"context"
)

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=embedding_repository_mock.go --case=underscore --with-expecter

// Repository returns the full record set. Implementations read the backing
// store on every call; there is no index and no incremental update.
type Repository interface {
	All(ctx context.Context) ([]Record, error)
}

//go:generate mockery --name=Writer --dir=. --output=./mocks --filename=embedding_writer_mock.go --case=underscore --with-expecter

type Writer interface {
	WriteAll(ctx context.Context, records []Record) error
}
