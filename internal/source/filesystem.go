package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// FilesystemLister walks a local directory for ingestable documents.
type FilesystemLister struct {
	root string
}

// NewFilesystemLister creates a lister rooted at dir.
func NewFilesystemLister(dir string) *FilesystemLister {
	return &FilesystemLister{root: dir}
}

// List walks the root directory and returns every file with a recognized
// document extension, sorted by name. Hidden directories are skipped.
func (l *FilesystemLister) List(ctx context.Context) ([]Document, error) {
	var docs []Document

	err := filepath.Walk(l.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			if name := info.Name(); len(name) > 1 && name[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}

		if !recognizedExt(path) {
			return nil
		}

		docs = append(docs, Document{
			Name: filepath.Base(path),
			Key:  path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan source directory %s: %w", l.root, err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// Open opens the document's file for reading.
func (l *FilesystemLister) Open(ctx context.Context, doc Document) (io.ReadCloser, error) {
	f, err := os.Open(doc.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", doc.Key, err)
	}
	return f, nil
}
