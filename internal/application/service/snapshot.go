package service

import (
	"context"
	"io"
)

// SnapshotStore publishes rendered portfolio snapshots and returns their public URL.
type SnapshotStore interface {
	Upload(ctx context.Context, body io.Reader, folder string, name string) (string, error)
	Delete(ctx context.Context, folder string, name string) error
}
