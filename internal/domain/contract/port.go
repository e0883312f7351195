package contract

import "context"

// ExportArchive keeps a copy of downloaded export files.
type ExportArchive interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}
