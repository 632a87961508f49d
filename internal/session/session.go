// Package session holds the portal's authenticated-identity model: an
// explicit Session value resolved once per request and passed via context,
// backed by server-side records so logout genuinely revokes access.
package session

import "time"

// Role scopes what a session may access.
type Role string

const (
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
)

// Session is an authenticated identity. It is created on successful OTP
// verification and destroyed only on explicit logout; no expiry is modeled.
type Session struct {
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAuthenticated reports whether the session grants the given role.
func (s *Session) IsAuthenticated(role Role) bool {
	return s != nil && s.Email != "" && s.Role == role
}
