package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/repository"
)

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository creates a Postgres-backed TeamRepository implementation.
func NewTeamRepository(pool *pgxpool.Pool) repository.TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) GetByID(ctx context.Context, id domain.ID) (*domain.Team, error) {
	const query = `SELECT id, name FROM teams WHERE id = $1`

	var team domain.Team
	if err := r.pool.QueryRow(ctx, query, string(id)).Scan(&team.ID, &team.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	if team == nil {
		return domain.ErrInvalidPayload
	}
	if team.ID == "" {
		team.ID = domain.ID(uuid.NewString())
	}

	const query = `INSERT INTO teams (id, name) VALUES ($1, $2)`
	_, err := r.pool.Exec(ctx, query, string(team.ID), team.Name)
	return err
}
