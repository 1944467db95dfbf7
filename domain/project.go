package domain

// Project groups tasks under a team. The id is the merge key for
// reconciliation and must stay stable across syncs; it may be assigned by
// either the client or the server.
type Project struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TeamID      ID     `json:"team_id"`
}
