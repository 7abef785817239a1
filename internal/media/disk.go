package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskStore writes blobs below a root directory and serves them from a
// base URL. It stands in for a hosted object store in single-node deploys.
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore constructs a DiskStore rooted at dir.
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if dir == "" {
		return nil, errors.New("media: root directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: create root: %w", err)
	}
	return &DiskStore{root: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload stores the blob and returns its public URL. Paths may contain
// subdirectories but never escape the root.
func (s *DiskStore) Upload(ctx context.Context, p string, r io.Reader) (string, error) {
	clean := path.Clean("/" + p)
	if clean == "/" {
		return "", errors.New("media: path required")
	}
	dst := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("media: create dir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("media: create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("media: write: %w", err)
	}
	return s.baseURL + clean, nil
}

// Root exposes the storage directory for static file serving.
func (s *DiskStore) Root() string {
	return s.root
}
