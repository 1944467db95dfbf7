package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow/backend/domain"
)

type memUsers struct {
	rows []domain.User
}

func (m *memUsers) GetByID(_ context.Context, id domain.ID) (*domain.User, error) {
	for _, u := range m.rows {
		if u.ID == id {
			copied := u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.rows {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) ListByTeam(_ context.Context, teamID domain.ID) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.rows {
		if u.TeamID == teamID {
			u.Password = ""
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = domain.ID("u" + string(rune('0'+len(m.rows))))
	}
	m.rows = append(m.rows, *user)
	return nil
}

type memTeams struct {
	rows []domain.Team
}

func (m *memTeams) GetByID(_ context.Context, id domain.ID) (*domain.Team, error) {
	for _, t := range m.rows {
		if t.ID == id {
			copied := t
			return &copied, nil
		}
	}
	return nil, domain.ErrTeamNotFound
}

func (m *memTeams) Create(_ context.Context, team *domain.Team) error {
	if team.ID == "" {
		team.ID = domain.ID("team-" + string(rune('0'+len(m.rows))))
	}
	m.rows = append(m.rows, *team)
	return nil
}

type memProjects struct{}

func (memProjects) ListByTeam(context.Context, domain.ID) ([]domain.Project, error) { return nil, nil }
func (memProjects) Upsert(context.Context, *domain.Project) error                   { return nil }
func (memProjects) Delete(context.Context, domain.ID, domain.ID) error              { return nil }

type memTasks struct {
	rows []domain.Task
}

func (m *memTasks) ListByTeam(_ context.Context, teamID domain.ID) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range m.rows {
		if t.TeamID == teamID {
			out = append(out, t)
		}
	}
	return out, nil
}
func (m *memTasks) ListByProject(context.Context, domain.ID, domain.ID) ([]domain.Task, error) {
	return nil, nil
}
func (m *memTasks) Upsert(context.Context, *domain.Task) error                  { return nil }
func (m *memTasks) Delete(context.Context, domain.ID, domain.ID) error          { return nil }
func (m *memTasks) DeleteByProject(context.Context, domain.ID, domain.ID) error { return nil }

type memSessions struct {
	rows map[string]*domain.Session
}

func (m *memSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	if s, ok := m.rows[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (m *memSessions) Save(_ context.Context, session *domain.Session) error {
	if m.rows == nil {
		m.rows = make(map[string]*domain.Session)
	}
	m.rows[session.ID] = session
	return nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

func (m *memSessions) Extend(context.Context, string, int) error { return nil }

func newTestUseCase(users *memUsers, teams *memTeams, tasks *memTasks, sessions *memSessions) *UseCase {
	return New(users, teams, memProjects{}, tasks, sessions, Config{
		JWTSecret:  "test-secret",
		JWTIssuer:  "taskflow-test",
		SessionTTL: time.Hour,
	}, nil)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hashed)
}

func TestLoginSuccess(t *testing.T) {
	users := &memUsers{rows: []domain.User{{
		ID:       "u1",
		Name:     "Alex",
		Email:    "alex@example.com",
		Password: hashPassword(t, "secret"),
		Role:     domain.RoleManager,
		TeamID:   "team-1",
	}}}
	teams := &memTeams{rows: []domain.Team{{ID: "team-1", Name: "Team of Alex"}}}
	tasks := &memTasks{rows: []domain.Task{{
		ID:     "t1",
		TeamID: "team-1",
		Comments: []domain.Comment{
			{User: "a", Text: "hi", Time: "T1"},
			{User: "a", Text: "hi", Time: "T1"},
		},
	}}}
	sessions := &memSessions{}
	uc := newTestUseCase(users, teams, tasks, sessions)

	result, err := uc.Login(context.Background(), "alex@example.com", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.User.Password != "" {
		t.Error("password hash leaked in login result")
	}
	if result.Session == nil || sessions.rows[result.Session.ID] == nil {
		t.Error("session not persisted")
	}
	if result.Data.Team == nil || result.Data.Team.ID != "team-1" {
		t.Errorf("team data missing: %+v", result.Data.Team)
	}
	if len(result.Data.Tasks) != 1 || len(result.Data.Tasks[0].Comments) != 1 {
		t.Errorf("task comments should be deduped: %+v", result.Data.Tasks)
	}

	token, err := jwt.Parse(result.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["team_id"] != "team-1" || claims["user_id"] != "u1" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	users := &memUsers{rows: []domain.User{{
		ID:       "u1",
		Email:    "alex@example.com",
		Password: hashPassword(t, "secret"),
		TeamID:   "team-1",
	}}}
	uc := newTestUseCase(users, &memTeams{}, &memTasks{}, &memSessions{})

	_, err := uc.Login(context.Background(), "alex@example.com", "wrong")
	if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	uc := newTestUseCase(&memUsers{}, &memTeams{}, &memTasks{}, &memSessions{})

	_, err := uc.Login(context.Background(), "nobody@example.com", "x")
	if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestRegisterManagerCreatesTeam(t *testing.T) {
	users := &memUsers{}
	teams := &memTeams{}
	uc := newTestUseCase(users, teams, &memTasks{}, &memSessions{})

	result, err := uc.Register(context.Background(), RegisterInput{
		Name:     "Alex",
		Email:    "alex@example.com",
		Password: "secret",
		Role:     domain.RoleManager,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if len(teams.rows) != 1 || teams.rows[0].Name != "Team of Alex" {
		t.Errorf("team not created: %+v", teams.rows)
	}
	if result.TeamID != teams.rows[0].ID {
		t.Errorf("result team id = %q", result.TeamID)
	}
	if len(users.rows) != 1 || users.rows[0].Role != domain.RoleManager {
		t.Errorf("user not created as manager: %+v", users.rows)
	}
	if users.rows[0].Password == "secret" {
		t.Error("password stored in plaintext")
	}
}

func TestRegisterMemberNeedsValidTeam(t *testing.T) {
	teams := &memTeams{rows: []domain.Team{{ID: "team-1", Name: "Existing"}}}
	uc := newTestUseCase(&memUsers{}, teams, &memTasks{}, &memSessions{})

	if _, err := uc.Register(context.Background(), RegisterInput{
		Name: "Sam", Email: "sam@example.com", Password: "pw", Role: domain.RoleMember,
	}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("missing team id should be invalid, got %v", err)
	}

	if _, err := uc.Register(context.Background(), RegisterInput{
		Name: "Sam", Email: "sam@example.com", Password: "pw", Role: domain.RoleMember, TeamID: "ghost",
	}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("unknown team id should be invalid, got %v", err)
	}

	if _, err := uc.Register(context.Background(), RegisterInput{
		Name: "Sam", Email: "sam@example.com", Password: "pw", Role: domain.RoleMember, TeamID: "team-1",
	}); err != nil {
		t.Errorf("valid team id should register: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &memUsers{rows: []domain.User{{ID: "u1", Email: "taken@example.com"}}}
	uc := newTestUseCase(users, &memTeams{}, &memTasks{}, &memSessions{})

	_, err := uc.Register(context.Background(), RegisterInput{
		Name: "X", Email: "taken@example.com", Password: "pw", Role: domain.RoleManager,
	})
	if !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestGetSessionExpired(t *testing.T) {
	sessions := &memSessions{rows: map[string]*domain.Session{
		"s1": {ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)},
	}}
	uc := newTestUseCase(&memUsers{}, &memTeams{}, &memTasks{}, sessions)

	if _, err := uc.GetSession(context.Background(), "s1"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("expected not found for expired session, got %v", err)
	}
	if sessions.rows["s1"] != nil {
		t.Error("expired session should be deleted")
	}
}
