package domain

import "time"

// Animal is a shelter resident, owned by the account that registered it.
// OwnerUsername is a read-side join, populated on fetch and ignored on writes.
type Animal struct {
	ID            int64
	Name          string
	Description   string
	BirthDate     time.Time
	UserID        string
	OwnerUsername string
	Adopted       bool
	CreatedAt     time.Time
	Version       int64
}
