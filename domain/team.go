package domain

// Team is the identity scope that owns projects, tasks and users.
type Team struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}
