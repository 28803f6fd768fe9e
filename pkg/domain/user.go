package domain

// Role is a server-assigned capability tag. The client never mutates it.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleMember || r == RoleAdmin
}

// User represents a registered account as issued by the backend.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// DisplayName returns the name shown in the header chrome.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
