package services

import (
	"context"

	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/internal/infrastructure/cleanup"
	"github.com/taskflow/backend/usecase"
)

// CleanupBridge adapts the bolt-backed queue to the CleanupDeferrer port so
// the reconciliation engine stays storage-agnostic.
type CleanupBridge struct {
	queue *cleanup.Queue
}

func NewCleanupBridge(queue *cleanup.Queue) *CleanupBridge {
	return &CleanupBridge{queue: queue}
}

func (b *CleanupBridge) Defer(_ context.Context, teamID domain.ID, ref string) error {
	if b == nil || b.queue == nil || ref == "" {
		return domain.ErrInvalidPayload
	}
	return b.queue.Enqueue(cleanup.Item{
		TeamID: teamID.String(),
		Ref:    ref,
	})
}

var _ usecase.CleanupDeferrer = (*CleanupBridge)(nil)
