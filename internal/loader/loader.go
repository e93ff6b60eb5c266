// ABOUTME: Document loader for plain-text and markdown study materials
// ABOUTME: Walks a directory, skipping unsupported types and reporting unreadable files
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harper/csprep/internal/models"
)

// supportedExtensions lists the file types the loader reads
var supportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
}

// Loader reads study-material documents from disk
type Loader struct{}

// New creates a Loader
func New() *Loader {
	return &Loader{}
}

// LoadDirectory loads every supported file under dir, recursively.
// Unsupported file types are skipped silently. An unreadable file does
// not fail the batch: it is omitted from the result and returned in
// skipped. Documents come back sorted by source name so ingestion order
// is reproducible.
func (l *Loader) LoadDirectory(dir string) ([]models.Document, []string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("not a directory: %s", dir)
	}

	var docs []models.Document
	var skipped []string

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			skipped = append(skipped, path)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		doc, err := l.LoadFile(path)
		if err != nil {
			skipped = append(skipped, path)
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Source < docs[j].Source })
	return docs, skipped, nil
}

// LoadFile loads a single document. The source identifier is the file's
// base name, which keeps vector ids stable when the directory moves.
func (l *Loader) LoadFile(path string) (models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return models.Document{
		Source:   filepath.Base(path),
		Content:  string(data),
		Path:     path,
		FileSize: int64(len(data)),
	}, nil
}
