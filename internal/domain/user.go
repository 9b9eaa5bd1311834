package domain

import "time"

// User is the domain model for shelter accounts.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	Roles        []Role
	CreatedAt    time.Time
}
