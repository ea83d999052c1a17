package source

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// Document identifies one source document offered by a Lister.
type Document struct {
	// Name is the base file name, e.g. "handbook.pdf". It becomes the
	// file_name field of every chunk record produced from the document.
	Name string
	// Key is the provider-specific locator: an absolute path for the
	// filesystem lister, an object key for the S3 lister.
	Key string
}

// Lister enumerates source documents and opens their raw bytes.
type Lister interface {
	// List returns the documents available at the source, in a stable order.
	// An empty result is not an error.
	List(ctx context.Context) ([]Document, error)
	// Open returns a reader for the document's raw content. The caller closes it.
	Open(ctx context.Context, doc Document) (io.ReadCloser, error)
}

// recognizedExt reports whether the file name carries an extension the
// ingestion pipeline knows how to convert.
func recognizedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".md", ".markdown", ".txt":
		return true
	}
	return false
}
