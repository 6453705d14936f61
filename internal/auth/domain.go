package auth

import "time"

// User represents an authenticated user account.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
