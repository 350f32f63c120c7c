package embedding

import "errors"

var (
	ErrProviderNonOKResponse = errors.New("embedding provider returned non-OK response")
	ErrEmptyEmbedding        = errors.New("empty embedding returned by provider")
	ErrUnsupportedProvider   = errors.New("unsupported embedding provider")
	ErrStoreNotFound         = errors.New("embedding store not found")
	ErrStoreMalformed        = errors.New("embedding store is malformed")
	ErrInvalidRecord         = errors.New("invalid embedding record")
)
