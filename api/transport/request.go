package transport

import "github.com/taskflow/backend/domain"

// SyncRequest is a client's full snapshot of its team data. Absence of a
// known record means the client deleted it.
type SyncRequest struct {
	Projects []domain.ProjectRecord `json:"projects"`
	Tasks    []domain.TaskRecord    `json:"tasks"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	TeamID    domain.ID `json:"team_id"`
	TeamIDAlt domain.ID `json:"teamId"`
}

// ResolveTeamID prefers the canonical spelling over the alternate one.
func (r RegisterRequest) ResolveTeamID() domain.ID {
	if r.TeamID != "" {
		return r.TeamID
	}
	return r.TeamIDAlt
}

type LogoutRequest struct {
	SessionID string `json:"session_id"`
}
