package document

import (
	"context"
)

// Document is a blog post read from the content directory before it is embedded.
type Document struct {
	ID      string
	Title   string
	Content string
	Path    string
}

//go:generate mockery --name=Loader --dir=. --output=./mocks --filename=document_loader_mock.go --case=underscore --with-expecter

type Loader interface {
	Load(ctx context.Context) ([]Document, error)
}
