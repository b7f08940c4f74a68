package diag

import (
	"bytes"
	"context"
	"errors"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

// StorageWriter writes artifacts under a base afs URL.
type StorageWriter struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// NewStorageWriter returns a writer rooted at baseURL. A plain path is treated as
// a local directory.
func NewStorageWriter(baseURL string, options ...storage.Option) (*StorageWriter, error) {
	if baseURL == "" {
		return nil, errors.New("diag: storage base URL required")
	}
	return &StorageWriter{fs: afs.New(), baseURL: url.Normalize(baseURL, "file"), options: options}, nil
}

// URL returns the full location of artifact name.
func (w *StorageWriter) URL(name string) string {
	return url.Join(w.baseURL, name)
}

func (w *StorageWriter) Write(ctx context.Context, name string, content []byte) error {
	return w.fs.Upload(ctx, w.URL(name), 0o644, bytes.NewReader(content), w.options...)
}

// Read returns a previously written artifact.
func (w *StorageWriter) Read(ctx context.Context, name string) ([]byte, error) {
	return w.fs.DownloadWithURL(ctx, w.URL(name), w.options...)
}
