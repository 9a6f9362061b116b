package storage

import (
	"context"
	"io"
)

// Uploader stores recorded audio clips and returns a URL the frontend can
// play back directly.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedURL string, err error)
}
