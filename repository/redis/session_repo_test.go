package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/repository"
)

func setupTestRepo(t *testing.T) (repository.SessionRepository, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionRepository(client, time.Hour), s
}

func TestSessionSaveAndGet(t *testing.T) {
	repo, _ := setupTestRepo(t)
	ctx := context.Background()

	session := &domain.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		TeamID:    "team-1",
		Role:      domain.RoleManager,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.UserID != "user-1" || got.TeamID != "team-1" || got.Role != domain.RoleManager {
		t.Errorf("unexpected session: %+v", got)
	}
}

func TestSessionGetMissing(t *testing.T) {
	repo, _ := setupTestRepo(t)

	_, err := repo.Get(context.Background(), "nope")
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("expected not-found domain error, got %v", err)
	}
}

func TestSessionExpires(t *testing.T) {
	repo, s := setupTestRepo(t)
	ctx := context.Background()

	session := &domain.Session{
		ID:        "sess-2",
		UserID:    "user-2",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Second),
	}
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	s.FastForward(2 * time.Second)

	if _, err := repo.Get(ctx, "sess-2"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("expected session to expire, got %v", err)
	}
}

func TestSessionDeleteAndExtend(t *testing.T) {
	repo, s := setupTestRepo(t)
	ctx := context.Background()

	session := &domain.Session{
		ID:        "sess-3",
		UserID:    "user-3",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Minute),
	}
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := repo.Extend(ctx, "sess-3", 3600); err != nil {
		t.Fatalf("Extend failed: %v", err)
	}
	s.FastForward(2 * time.Minute)
	if _, err := repo.Get(ctx, "sess-3"); err != nil {
		t.Errorf("extended session should still exist: %v", err)
	}

	if err := repo.Delete(ctx, "sess-3"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, "sess-3"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("expected not-found after delete, got %v", err)
	}
}
