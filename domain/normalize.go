package domain

// Records arrive from several sources (seed data, a client's local cache,
// older server payloads) with drifting field spellings: description vs desc,
// team_id vs teamId, projectId vs project_id. The record types below decode
// every known spelling and Normalize copies the alternates into the canonical
// fields without ever discarding a populated canonical value.

// ProjectRecord is the loosely-shaped wire form of a project.
type ProjectRecord struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Desc        string `json:"desc"`
	TeamID      ID     `json:"team_id"`
	TeamIDAlt   ID     `json:"teamId"`
}

// Normalize returns the canonical project. Canonical fields win; alternates
// only fill gaps.
func (r ProjectRecord) Normalize() Project {
	p := Project{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		TeamID:      r.TeamID,
	}
	if p.Description == "" && r.Desc != "" {
		p.Description = r.Desc
	}
	if p.TeamID == "" && r.TeamIDAlt != "" {
		p.TeamID = r.TeamIDAlt
	}
	return p
}

// TaskRecord is the loosely-shaped wire form of a task.
type TaskRecord struct {
	ID           ID           `json:"id"`
	ProjectID    ID           `json:"projectId"`
	ProjectIDAlt ID           `json:"project_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Desc         string       `json:"desc"`
	Assignee     string       `json:"assignee"`
	Priority     string       `json:"priority"`
	Due          string       `json:"due"`
	Status       string       `json:"status"`
	TeamID       ID           `json:"team_id"`
	TeamIDAlt    ID           `json:"teamId"`
	Comments     []Comment    `json:"comments"`
	Files        []Attachment `json:"files"`
}

// Normalize returns the canonical task. Comments and files pass through
// untouched; an empty due becomes nil.
func (r TaskRecord) Normalize() Task {
	t := Task{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Title:       r.Title,
		Description: r.Description,
		Assignee:    r.Assignee,
		Priority:    r.Priority,
		Status:      r.Status,
		TeamID:      r.TeamID,
		Comments:    r.Comments,
		Files:       r.Files,
	}
	if t.Description == "" && r.Desc != "" {
		t.Description = r.Desc
	}
	if t.ProjectID == "" && r.ProjectIDAlt != "" {
		t.ProjectID = r.ProjectIDAlt
	}
	if t.TeamID == "" && r.TeamIDAlt != "" {
		t.TeamID = r.TeamIDAlt
	}
	if r.Due != "" {
		due := r.Due
		t.Due = &due
	}
	return t
}

// UserRecord is the loosely-shaped wire form of a user.
type UserRecord struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TeamID    ID     `json:"team_id"`
	TeamIDAlt ID     `json:"teamId"`
}

// Normalize returns the canonical user.
func (r UserRecord) Normalize() User {
	u := User{
		ID:     r.ID,
		Name:   r.Name,
		Email:  r.Email,
		Role:   r.Role,
		TeamID: r.TeamID,
	}
	if u.TeamID == "" && r.TeamIDAlt != "" {
		u.TeamID = r.TeamIDAlt
	}
	return u
}
