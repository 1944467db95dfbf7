package repository

import (
	"context"

	"github.com/taskflow/backend/domain"
)

type ProjectRepository interface {
	ListByTeam(ctx context.Context, teamID domain.ID) ([]domain.Project, error)
	Upsert(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id, teamID domain.ID) error
}
