package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

var parserPool fastjson.ParserPool

// FileEmbeddingRepository keeps every record in a single JSON array file.
// The file is read on every All call so a rebuilt store is picked up
// without a restart.
type FileEmbeddingRepository struct {
	path   string
	logger *logrus.Logger
}

var (
	_ embedding.Repository = (*FileEmbeddingRepository)(nil)
	_ embedding.Writer     = (*FileEmbeddingRepository)(nil)
)

func NewFileEmbeddingRepository(path string, logger *logrus.Logger) *FileEmbeddingRepository {
	return &FileEmbeddingRepository{
		path:   path,
		logger: logger,
	}
}

func (r *FileEmbeddingRepository) Path() string {
	return r.path
}

func (r *FileEmbeddingRepository) All(ctx context.Context) ([]embedding.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", embedding.ErrStoreNotFound, r.path)
		}
		return nil, fmt.Errorf("failed to read embedding store: %w", err)
	}

	p := parserPool.Get()
	defer parserPool.Put(p)

	root, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", embedding.ErrStoreMalformed, err)
	}
	items, err := root.Array()
	if err != nil {
		return nil, fmt.Errorf("%w: top-level value is not an array", embedding.ErrStoreMalformed)
	}

	records := make([]embedding.Record, 0, len(items))
	for i, item := range items {
		rec, err := decodeRecord(item)
		if err != nil {
			r.logger.WithFields(logrus.Fields{
				"index": i,
				"path":  r.path,
			}).WithError(err).Warn("skipping malformed embedding record")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRecord(v *fastjson.Value) (embedding.Record, error) {
	var rec embedding.Record
	if v.Type() != fastjson.TypeObject {
		return rec, fmt.Errorf("%w: expected object, got %s", embedding.ErrInvalidRecord, v.Type())
	}

	rec.ID = stringField(v, "id")
	rec.Title = stringField(v, "title")
	rec.Content = stringField(v, "content")

	raw := v.Get("embedding")
	if raw == nil || raw.Type() != fastjson.TypeArray {
		return rec, fmt.Errorf("%w: embedding must be an array", embedding.ErrInvalidRecord)
	}
	values, _ := raw.Array()
	rec.Embedding = make([]float64, len(values))
	for i, n := range values {
		f, err := n.Float64()
		if err != nil {
			return rec, fmt.Errorf("%w: embedding[%d] is not a number", embedding.ErrInvalidRecord, i)
		}
		rec.Embedding[i] = f
	}

	if err := rec.Validate(); err != nil {
		return rec, err
	}
	return rec, nil
}

func stringField(v *fastjson.Value, key string) string {
	f := v.Get(key)
	if f == nil || f.Type() != fastjson.TypeString {
		return ""
	}
	return string(f.GetStringBytes())
}

// WriteAll replaces the store atomically: records go to a temp file in the
// same directory which is then renamed over the target.
func (r *FileEmbeddingRepository) WriteAll(ctx context.Context, records []embedding.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []embedding.Record{}
	}

	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal embedding records: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".embeddings-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(append(payload, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp store file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp store file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to replace embedding store: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"path":    r.path,
		"records": len(records),
	}).Info("embedding store written")
	return nil
}
