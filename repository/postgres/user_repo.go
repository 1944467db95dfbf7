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

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	const query = `
	SELECT id, name, email, password, role, team_id
	FROM users
	WHERE id = $1
	`
	return scanUser(r.pool.QueryRow(ctx, query, string(id)))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
	SELECT id, name, email, password, role, team_id
	FROM users
	WHERE email = $1
	`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// ListByTeam returns team members without their password hashes.
func (r *userRepository) ListByTeam(ctx context.Context, teamID domain.ID) ([]domain.User, error) {
	const query = `
	SELECT id, name, email, role, team_id
	FROM users
	WHERE team_id = $1
	ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, string(teamID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.TeamID); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = domain.ID(uuid.NewString())
	}

	const query = `
	INSERT INTO users (id, name, email, password, role, team_id)
	VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		string(user.ID),
		user.Name,
		user.Email,
		user.Password,
		user.Role,
		string(user.TeamID),
	)
	return err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.Role, &user.TeamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
