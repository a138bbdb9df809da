package identity

import "time"

// Roles assignable to a user account.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User represents a storefront account.
type User struct {
	ID            string
	Email         string
	Name          string
	Role          string
	Storefront    string
	PasswordHash  []byte
	EmailVerified bool
	FailedLogins  int
	LockedUntil   time.Time
	CreatedAt     time.Time
}

// Credentials carries a registration or login request.
type Credentials struct {
	Email      string
	Password   string
	Name       string
	Storefront string
}
