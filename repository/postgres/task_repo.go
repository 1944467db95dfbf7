package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, "projectId", title, description, assignee, priority, due, status, team_id, comments, files`

func (r *taskRepository) ListByTeam(ctx context.Context, teamID domain.ID) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE team_id = $1
	ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, string(teamID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID, teamID domain.ID) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE "projectId" = $1 AND team_id = $2
	ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, string(projectID), string(teamID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// Upsert inserts the task or overwrites its mutable fields. Id, projectId and
// team_id are fixed at creation; the conflict branch is a whole-record
// last-writer-wins overwrite of everything else.
func (r *taskRepository) Upsert(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO tasks (id, "projectId", title, description, assignee, priority, due, status, team_id, comments, files)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id, team_id) DO UPDATE
	SET title = EXCLUDED.title,
		description = EXCLUDED.description,
		assignee = EXCLUDED.assignee,
		priority = EXCLUDED.priority,
		due = EXCLUDED.due,
		status = EXCLUDED.status,
		comments = EXCLUDED.comments,
		files = EXCLUDED.files
	`
	_, err := r.pool.Exec(ctx, query,
		string(task.ID),
		string(task.ProjectID),
		task.Title,
		task.Description,
		task.Assignee,
		task.Priority,
		dueValue(task.Due),
		task.Status,
		string(task.TeamID),
		marshalJSON(task.Comments),
		marshalJSON(task.Files),
	)
	return err
}

// Delete is idempotent: removing an absent task is not an error.
func (r *taskRepository) Delete(ctx context.Context, id, teamID domain.ID) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND team_id = $2`
	_, err := r.pool.Exec(ctx, query, string(id), string(teamID))
	return err
}

func (r *taskRepository) DeleteByProject(ctx context.Context, projectID, teamID domain.ID) error {
	const query = `DELETE FROM tasks WHERE "projectId" = $1 AND team_id = $2`
	_, err := r.pool.Exec(ctx, query, string(projectID), string(teamID))
	return err
}

func collectTasks(rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var (
		due      *time.Time
		comments []byte
		files    []byte
	)

	if err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.Assignee,
		&task.Priority,
		&due,
		&task.Status,
		&task.TeamID,
		&comments,
		&files,
	); err != nil {
		return nil, err
	}

	task.Due = dueString(due)
	task.Comments = unmarshalComments(comments)
	task.Files = unmarshalAttachments(files)
	return &task, nil
}
