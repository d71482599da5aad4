package domain

import "time"

// UserRole represents the role of a user account.
type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

// User represents an account that can offer rides as a driver and reserve
// seats as a passenger. PasswordHash is a bcrypt hash, never the plaintext.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	PhoneNumber  string
	Role         UserRole
	CreatedAt    time.Time
}
