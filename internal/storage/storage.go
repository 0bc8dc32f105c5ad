package storage

import (
	"context"
	"io"
	"os"
)

// CatalogSource abstracts where a catalog import file comes from.
// The ingest command reads exercise CSV dumps either from local disk
// or from an S3-compatible bucket.
type CatalogSource interface {
	// Open returns a reader for the named object or file path.
	// The caller must close the returned reader.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// localSource reads import files straight from the filesystem.
type localSource struct{}

// NewLocalSource creates a CatalogSource backed by local files.
func NewLocalSource() CatalogSource {
	return localSource{}
}

func (localSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(name)
}
