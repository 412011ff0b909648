package interfaces

import (
	"context"
	"io"
)

// SnapshotSaver abstracts the persistence collaborator. It receives a complete
// snapshot and is responsible for durable storage.
type SnapshotSaver interface {
	// Save stores the snapshot. Implementations must not retain or mutate it.
	Save(ctx context.Context, snap *Snapshot) error
}

// MediaUploader abstracts the file-storage collaborator.
type MediaUploader interface {
	// Upload stores the file and returns an opaque reference to it.
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}
