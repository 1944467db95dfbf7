package domain

// Task statuses understood by clients. Unknown values are stored verbatim so an
// older server never destroys a newer client's state.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// Task represents a unit of work inside a project. Comments and Files travel
// with the task as ordered sub-records and are serialized to JSON at the
// storage boundary.
type Task struct {
	ID          ID           `json:"id"`
	ProjectID   ID           `json:"projectId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Assignee    string       `json:"assignee"`
	Priority    string       `json:"priority"`
	Due         *string      `json:"due"`
	Status      string       `json:"status"`
	TeamID      ID           `json:"team_id"`
	Comments    []Comment    `json:"comments"`
	Files       []Attachment `json:"files"`
}

// Attachment points at content held outside the relational record.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// AttachmentRefs collects every content reference held by the task, both
// direct files and files embedded in comments.
func (t *Task) AttachmentRefs() []string {
	if t == nil {
		return nil
	}
	var refs []string
	for _, f := range t.Files {
		if f.URL != "" {
			refs = append(refs, f.URL)
		}
	}
	for _, c := range t.Comments {
		if c.File != nil && c.File.URL != "" {
			refs = append(refs, c.File.URL)
		}
	}
	return refs
}

func (t *Task) IsDone() bool {
	return t != nil && t.Status == StatusDone
}
