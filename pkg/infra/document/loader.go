package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/rdd6584/blogqa/pkg/domain/document"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var DefaultExtensions = []string{".mdx", ".md"}

const frontMatterDelimiter = "---"

type frontMatter struct {
	ID    string `mapstructure:"id"`
	Title string `mapstructure:"title"`
}

type fsLoader struct {
	dir        string
	extensions []string
	logger     *logrus.Logger
}

// NewFSLoader loads every post file directly inside dir, ordered by file
// name. Subdirectories are not visited.
func NewFSLoader(dir string, extensions []string, logger *logrus.Logger) document.Loader {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &fsLoader{
		dir:        dir,
		extensions: extensions,
		logger:     logger,
	}
}

func (l *fsLoader) Load(ctx context.Context) ([]document.Document, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list content directory %s: %w", l.dir, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var docs []document.Document
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !l.matches(entry.Name()) {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		doc, err := l.parse(path, raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	l.logger.WithFields(logrus.Fields{
		"dir":       l.dir,
		"documents": len(docs),
	}).Debug("content directory loaded")
	return docs, nil
}

func (l *fsLoader) matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range l.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (l *fsLoader) parse(path string, raw []byte) (document.Document, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := document.Document{
		ID:    base,
		Title: base,
		Path:  path,
	}

	header, body, ok := splitFrontMatter(raw)
	doc.Content = string(body)
	if !ok {
		return doc, nil
	}

	var meta map[string]interface{}
	if err := yaml.Unmarshal(header, &meta); err != nil {
		return doc, fmt.Errorf("invalid front matter in %s: %w", path, err)
	}

	var fm frontMatter
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &fm,
	})
	if err != nil {
		return doc, err
	}
	if err := decoder.Decode(meta); err != nil {
		l.logger.WithError(err).WithField("path", path).Warn("ignoring unreadable front matter fields")
	}

	if strings.TrimSpace(fm.ID) != "" {
		doc.ID = fm.ID
	}
	if strings.TrimSpace(fm.Title) != "" {
		doc.Title = fm.Title
	}
	return doc, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the
// body. ok is false when the file has no complete front matter block.
func splitFrontMatter(raw []byte) (header, body []byte, ok bool) {
	text := bytes.TrimPrefix(raw, []byte("\ufeff"))
	text = bytes.ReplaceAll(text, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(text, []byte(frontMatterDelimiter+"\n")) {
		return nil, text, false
	}
	rest := text[len(frontMatterDelimiter)+1:]

	// the closing delimiter must sit on its own line
	search := append([]byte("\n"), rest...)
	if !bytes.HasSuffix(search, []byte("\n")) {
		search = append(search, '\n')
	}
	idx := bytes.Index(search, []byte("\n"+frontMatterDelimiter+"\n"))
	if idx < 0 {
		return nil, text, false
	}
	header = rest[:max(idx-1, 0)]
	body = rest[min(idx+len(frontMatterDelimiter)+1, len(rest)):]
	return header, body, true
}
