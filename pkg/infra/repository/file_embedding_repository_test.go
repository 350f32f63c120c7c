package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T, content string) *FileEmbeddingRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "embeddings.json")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return NewFileEmbeddingRepository(path, logger)
}

func TestAll_ReadsRecords(t *testing.T) {
	repo := newRepo(t, `[
		{"id":"go-intro","title":"Intro to Go","content":"Go is simple.","embedding":[0.1,0.2,0.3]},
		{"id":"rust","title":"Rust","content":"Ownership.","embedding":[1,-2,3e-2]}
	]`)

	records, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, embedding.Record{
		ID:        "go-intro",
		Title:     "Intro to Go",
		Content:   "Go is simple.",
		Embedding: []float64{0.1, 0.2, 0.3},
	}, records[0])
	assert.Equal(t, []float64{1, -2, 0.03}, records[1].Embedding)
}

func TestAll_SkipsMalformedRecords(t *testing.T) {
	repo := newRepo(t, `[
		{"id":"ok","title":"Ok","content":"fine","embedding":[1,0]},
		{"title":"no id","content":"x","embedding":[1,0]},
		{"id":"no-content","content":"","embedding":[1,0]},
		{"id":"empty-vec","content":"x","embedding":[]},
		{"id":"bad-vec","content":"x","embedding":[1,"two"]},
		{"id":"missing-vec","content":"x"},
		"just a string",
		{"id":"ok2","content":"no title is fine","embedding":[0,1]}
	]`)

	records, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ok", records[0].ID)
	assert.Equal(t, "ok2", records[1].ID)
	assert.Empty(t, records[1].Title)
}

func TestAll_StoreErrors(t *testing.T) {
	_, err := newRepo(t, "").All(context.Background())
	assert.ErrorIs(t, err, embedding.ErrStoreNotFound)

	_, err = newRepo(t, `{"id":"x"}`).All(context.Background())
	assert.ErrorIs(t, err, embedding.ErrStoreMalformed)

	_, err = newRepo(t, `[{"id":`).All(context.Background())
	assert.ErrorIs(t, err, embedding.ErrStoreMalformed)
}

func TestAll_EmptyArray(t *testing.T) {
	records, err := newRepo(t, `[]`).All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWriteAll_RoundTripsAndReplaces(t *testing.T) {
	repo := newRepo(t, `[{"id":"old","content":"old","embedding":[1]}]`)
	records := []embedding.Record{
		{ID: "a", Title: "A", Content: "alpha", Embedding: []float64{0.5, 0.5}},
		{ID: "b", Title: "B", Content: "beta", Embedding: []float64{-1, 0}},
	}

	require.NoError(t, repo.WriteAll(context.Background(), records))

	got, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, records, got)

	entries, err := os.ReadDir(filepath.Dir(repo.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriteAll_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store", "embeddings.json")
	repo := NewFileEmbeddingRepository(path, logrus.New())

	require.NoError(t, repo.WriteAll(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
