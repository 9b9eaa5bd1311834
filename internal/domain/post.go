package domain

import "time"

// Post is a shelter news entry. Deleting a post removes its comments.
type Post struct {
	ID            int64
	Title         string
	Body          string
	UserID        string
	OwnerUsername string
	Status        string
	CreatedAt     time.Time
	Version       int64
}
