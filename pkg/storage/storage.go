// Package storage provides file persistence backends for submission uploads.
package storage

import (
	"context"
	"io"
)

// FileStorage abstracts upload destinations. Implementations return the URL
// at which the stored file can be fetched back.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}
