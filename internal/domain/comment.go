package domain

import "time"

// Comment belongs to exactly one post and one authoring account.
type Comment struct {
	ID            int64
	Body          string
	UserID        string
	OwnerUsername string
	PostID        int64
	Status        string
	CreatedAt     time.Time
	Version       int64
}
