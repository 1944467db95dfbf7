package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/repository"
)

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository returns a Postgres-backed implementation of ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) ListByTeam(ctx context.Context, teamID domain.ID) ([]domain.Project, error) {
	const query = `
	SELECT id, name, description, team_id
	FROM projects
	WHERE team_id = $1
	ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, string(teamID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.TeamID); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Upsert inserts the project or, when the (id, team_id) pair already exists,
// overwrites name and description only. Id and team_id are immutable once set.
func (r *projectRepository) Upsert(ctx context.Context, project *domain.Project) error {
	if project == nil || project.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO projects (id, name, description, team_id)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id, team_id) DO UPDATE
	SET name = EXCLUDED.name,
		description = EXCLUDED.description
	`
	_, err := r.pool.Exec(ctx, query,
		string(project.ID),
		project.Name,
		project.Description,
		string(project.TeamID),
	)
	return err
}

// Delete is idempotent: removing an absent project is not an error.
func (r *projectRepository) Delete(ctx context.Context, id, teamID domain.ID) error {
	const query = `DELETE FROM projects WHERE id = $1 AND team_id = $2`
	_, err := r.pool.Exec(ctx, query, string(id), string(teamID))
	return err
}
