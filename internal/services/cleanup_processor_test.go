package services

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/internal/infrastructure/cleanup"
)

type fakeContent struct {
	deleted []string
	fail    map[string]bool
}

func (f *fakeContent) Store(context.Context, string, io.Reader) (domain.Attachment, error) {
	return domain.Attachment{}, nil
}

func (f *fakeContent) Resolve(context.Context, string) ([]byte, error) {
	return nil, domain.ErrAttachmentNotFound
}

func (f *fakeContent) Delete(_ context.Context, ref string) error {
	if f.fail[ref] {
		return domain.NewError(domain.ErrCodeInternal, "disk busy")
	}
	f.deleted = append(f.deleted, ref)
	return nil
}

func newTestProcessor(t *testing.T, content *fakeContent) (*CleanupProcessor, *cleanup.Queue) {
	t.Helper()
	q, err := cleanup.Open(filepath.Join(t.TempDir(), "cleanup.db"), "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { q.Close() })

	cp := NewCleanupProcessor(q, content, nil, ProcessorConfig{
		Interval:   time.Minute,
		BatchSize:  10,
		MaxRetries: 2,
	})
	return cp, q
}

func TestDrainDeletesQueuedRefs(t *testing.T) {
	content := &fakeContent{}
	cp, q := newTestProcessor(t, content)

	for _, ref := range []string{"/uploads/a", "/uploads/b"} {
		if err := q.Enqueue(cleanup.Item{TeamID: "team-1", Ref: ref}); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}

	if err := cp.Drain(context.Background()); err != nil {
		t.Fatalf("Drain: %v", err)
	}

	if len(content.deleted) != 2 {
		t.Errorf("deleted = %v", content.deleted)
	}
	if cp.Size() != 0 {
		t.Errorf("queue size = %d after drain", cp.Size())
	}
}

func TestDrainRequeuesFailures(t *testing.T) {
	content := &fakeContent{fail: map[string]bool{"/uploads/stuck": true}}
	cp, q := newTestProcessor(t, content)

	if err := q.Enqueue(cleanup.Item{TeamID: "team-1", Ref: "/uploads/stuck"}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	if err := cp.Drain(context.Background()); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if cp.Size() != 1 {
		t.Fatalf("failed item should stay queued, size = %d", cp.Size())
	}

	items, err := q.GetBatch(1)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if items[0].Retries != 1 {
		t.Errorf("retries = %d, want 1", items[0].Retries)
	}
}

func TestDrainDropsAfterMaxRetries(t *testing.T) {
	content := &fakeContent{fail: map[string]bool{"/uploads/stuck": true}}
	cp, q := newTestProcessor(t, content)

	if err := q.Enqueue(cleanup.Item{TeamID: "team-1", Ref: "/uploads/stuck"}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	// MaxRetries is 2: first drain requeues, second drops.
	for i := 0; i < 2; i++ {
		if err := cp.Drain(context.Background()); err != nil {
			t.Fatalf("Drain %d: %v", i, err)
		}
	}

	if cp.Size() != 0 {
		t.Errorf("item should be dropped, size = %d", cp.Size())
	}
}

func TestBridgeDefersToQueue(t *testing.T) {
	q, err := cleanup.Open(filepath.Join(t.TempDir(), "cleanup.db"), "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { q.Close() })

	bridge := NewCleanupBridge(q)
	if err := bridge.Defer(context.Background(), domain.ID("team-1"), "/uploads/x"); err != nil {
		t.Fatalf("Defer: %v", err)
	}

	items, err := q.GetBatch(1)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if len(items) != 1 || items[0].Ref != "/uploads/x" || items[0].TeamID != "team-1" {
		t.Errorf("items = %+v", items)
	}
}

func TestBridgeRejectsEmptyRef(t *testing.T) {
	bridge := NewCleanupBridge(nil)
	if err := bridge.Defer(context.Background(), domain.ID("t"), ""); err == nil {
		t.Error("expected error for empty ref")
	}
}
