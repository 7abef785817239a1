// Package media is the boundary to blob storage. Only product image
// editing goes through it.
package media

import (
	"context"
	"io"
)

// Uploader stores a blob under a path and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, path string, r io.Reader) (string, error)
}
