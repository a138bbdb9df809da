// Package sessionkit is the client-side session SDK for the storefront apps:
// credential persistence, the session manager, the login and OTP verification
// flows, and the guard used by authenticated views.
package sessionkit

// Roles returned by the verification endpoint.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Session is the authenticated credential triple. The three fields are set
// and cleared together; a session with any field missing is invalid and is
// never stored or restored.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Valid reports whether all three fields are present.
func (s Session) Valid() bool {
	return s.Token != "" && s.UserID != "" && s.Role != ""
}
