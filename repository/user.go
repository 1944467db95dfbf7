package repository

import (
	"context"

	"github.com/taskflow/backend/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id domain.ID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByTeam(ctx context.Context, teamID domain.ID) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}
