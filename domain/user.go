package domain

// User roles within a team.
const (
	RoleManager = "manager"
	RoleMember  = "member"
)

// User represents an authenticated identity in the platform. Password holds
// the bcrypt hash and never leaves the server.
type User struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     string `json:"role"`
	TeamID   ID     `json:"team_id"`
}

func (u *User) IsManager() bool {
	return u != nil && u.Role == RoleManager
}
