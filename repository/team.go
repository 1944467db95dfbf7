package repository

import (
	"context"

	"github.com/taskflow/backend/domain"
)

type TeamRepository interface {
	GetByID(ctx context.Context, id domain.ID) (*domain.Team, error)
	Create(ctx context.Context, team *domain.Team) error
}
