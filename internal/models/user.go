// server/internal/models/user.go
package models

// RoleAdmin may clear the event log when tokens are required.
const RoleAdmin = "ADMIN"

// User is a seeded account able to obtain access tokens.
// Password holds the plain fixture value until the auth service hashes it.
type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Password       string `json:"password,omitempty"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	HomeFacilityID string `json:"homeFacilityId,omitempty"`
	Active         bool   `json:"active"`
}

// Public strips credentials.
func (u User) Public() User {
	u.Password = ""
	return u
}
