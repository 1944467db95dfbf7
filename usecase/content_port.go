package usecase

import (
	"context"
	"io"

	"github.com/taskflow/backend/domain"
)

// ContentStore abstracts attachment persistence so use cases stay
// storage-agnostic. References are opaque URLs pointing into the store.
type ContentStore interface {
	Store(ctx context.Context, name string, r io.Reader) (domain.Attachment, error)
	Resolve(ctx context.Context, ref string) ([]byte, error)
	// Delete is idempotent: removing an already-absent reference is not an error.
	Delete(ctx context.Context, ref string) error
}

// CleanupDeferrer records attachment references whose deletion failed so a
// background processor can retry them later.
type CleanupDeferrer interface {
	Defer(ctx context.Context, teamID domain.ID, ref string) error
}
