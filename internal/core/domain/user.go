package domain

import "strings"

// Role is the marketplace role attached to a session. The zero value is RoleNone.
type Role string

const (
	RoleNone         Role = ""
	RoleAdmin        Role = "admin"
	RoleProfessional Role = "professional"
	RoleCustomer     Role = "customer"
)

// ParseRole maps a stored or upstream role string onto the closed Role set.
// Anything unrecognised becomes RoleNone.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleProfessional:
		return RoleProfessional
	case RoleCustomer:
		return RoleCustomer
	default:
		return RoleNone
	}
}

// Known reports whether r is one of the three marketplace roles.
func (r Role) Known() bool {
	return r == RoleAdmin || r == RoleProfessional || r == RoleCustomer
}

func (r Role) String() string {
	if r == RoleNone {
		return "none"
	}
	return string(r)
}

// User is a marketplace account as listed by GET /api/users.
type User struct {
	ID             int     `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	Flagged        bool    `json:"flagged"`
	DocumentPath   *string `json:"document_path"`
	ServiceOffered *string `json:"service_offered"`
}

// Profile is the logged-in user's own record (GET /api/user-profile).
type Profile struct {
	ID             int     `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	Flagged        bool    `json:"flagged"`
	ServiceOffered *string `json:"service_offered"`
}
