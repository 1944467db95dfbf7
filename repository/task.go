package repository

import (
	"context"

	"github.com/taskflow/backend/domain"
)

type TaskRepository interface {
	ListByTeam(ctx context.Context, teamID domain.ID) ([]domain.Task, error)
	ListByProject(ctx context.Context, projectID, teamID domain.ID) ([]domain.Task, error)
	Upsert(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id, teamID domain.ID) error
	DeleteByProject(ctx context.Context, projectID, teamID domain.ID) error
}
