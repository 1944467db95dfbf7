// Package auth implements the authentication provider: credential
// verification, registration, session issue, and the team-scoped tokens the
// sync gateway trusts.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/repository"
)

const bcryptCost = 10

type Config struct {
	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration
}

type UseCase struct {
	users    repository.UserRepository
	teams    repository.TeamRepository
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	sessions repository.SessionRepository
	cfg      Config
	logger   *zap.Logger
}

func New(
	users repository.UserRepository,
	teams repository.TeamRepository,
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	sessions repository.SessionRepository,
	cfg Config,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return &UseCase{
		users:    users,
		teams:    teams,
		projects: projects,
		tasks:    tasks,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
	}
}

// TeamData is the full dataset handed to a client after login; it seeds the
// client's local cache.
type TeamData struct {
	Projects []domain.Project `json:"projects"`
	Tasks    []domain.Task    `json:"tasks"`
	Users    []domain.User    `json:"users"`
	Team     *domain.Team     `json:"team"`
}

type LoginResult struct {
	User    domain.User
	Token   string
	Session *domain.Session
	Data    TeamData
}

// Login verifies credentials and returns the user's identity, a signed token
// carrying the team scope, and the team's current canonical dataset.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TeamID:    user.TeamID,
		Role:      user.Role,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(uc.cfg.SessionTTL),
	}
	if uc.sessions != nil {
		if err := uc.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	}

	token, err := uc.signToken(user, session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	data, err := uc.loadTeamData(ctx, user.TeamID)
	if err != nil {
		return nil, err
	}

	result := *user
	result.Password = ""
	return &LoginResult{
		User:    result,
		Token:   token,
		Session: session,
		Data:    data,
	}, nil
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	TeamID   domain.ID
}

type RegisterResult struct {
	TeamID domain.ID
}

// Register creates an account. Managers get a fresh team; members must name
// an existing one.
func (uc *UseCase) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidPayload
	}

	if _, err := uc.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
	}

	switch input.Role {
	case domain.RoleManager:
		team := &domain.Team{Name: fmt.Sprintf("Team of %s", input.Name)}
		if err := uc.teams.Create(ctx, team); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "team creation failed", err)
		}
		user.Role = domain.RoleManager
		user.TeamID = team.ID
	default:
		if input.TeamID == "" {
			return nil, domain.ErrTeamScopeRequired
		}
		if _, err := uc.teams.GetByID(ctx, input.TeamID); err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				return nil, domain.NewError(domain.ErrCodeInvalid, "Invalid Team ID")
			}
			return nil, err
		}
		user.Role = domain.RoleMember
		user.TeamID = input.TeamID
	}

	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.logger.Info("user registered",
		zap.String("email", input.Email),
		zap.String("role", user.Role),
		zap.String("team_id", user.TeamID.String()))

	return &RegisterResult{TeamID: user.TeamID}, nil
}

// Logout revokes the session; revoking an unknown session is not an error.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	if uc.sessions == nil || sessionID == "" {
		return nil
	}
	return uc.sessions.Delete(ctx, sessionID)
}

// GetSession returns a live session, deleting it if already expired.
func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *UseCase) signToken(user *domain.User, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"team_id": user.TeamID.String(),
		"role":    user.Role,
		"iss":     uc.cfg.JWTIssuer,
		"exp":     expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(uc.cfg.JWTSecret))
}

func (uc *UseCase) loadTeamData(ctx context.Context, teamID domain.ID) (TeamData, error) {
	data := TeamData{
		Projects: []domain.Project{},
		Tasks:    []domain.Task{},
		Users:    []domain.User{},
	}

	projects, err := uc.projects.ListByTeam(ctx, teamID)
	if err != nil {
		return data, err
	}
	tasks, err := uc.tasks.ListByTeam(ctx, teamID)
	if err != nil {
		return data, err
	}
	users, err := uc.users.ListByTeam(ctx, teamID)
	if err != nil {
		return data, err
	}
	team, err := uc.teams.GetByID(ctx, teamID)
	if err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return data, err
	}

	for i := range tasks {
		tasks[i].Comments = domain.DedupeComments(tasks[i].Comments)
	}

	if projects != nil {
		data.Projects = projects
	}
	if tasks != nil {
		data.Tasks = tasks
	}
	if users != nil {
		data.Users = users
	}
	data.Team = team
	return data, nil
}
