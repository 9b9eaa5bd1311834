package events

import (
	"time"

	"github.com/shelter-kit/shelter-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAnimalCreated  EventType = "animal_created"
	EventAnimalAdopted  EventType = "animal_adopted"
	EventPostCreated    EventType = "post_created"
	EventPostDeleted    EventType = "post_deleted"
	EventCommentCreated EventType = "comment_created"
	EventRoleAssigned   EventType = "role_assigned"
	EventAccountToggled EventType = "account_toggled"
)

// Actor identifies who triggered an event.
type Actor struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
}

// Event represents a domain event emitted by services. Publication is
// synchronous and in-request; there are no background consumers.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	Resource   string      `json:"resource"`
	ResourceID string      `json:"resource_id"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// AnimalCreatedPayload payload.
type AnimalCreatedPayload struct {
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

// AnimalAdoptedPayload payload.
type AnimalAdoptedPayload struct {
	Name string `json:"name"`
}

// PostCreatedPayload payload.
type PostCreatedPayload struct {
	Title   string `json:"title"`
	OwnerID string `json:"owner_id"`
}

// PostDeletedPayload payload.
type PostDeletedPayload struct {
	Title string `json:"title"`
}

// CommentCreatedPayload payload.
type CommentCreatedPayload struct {
	PostID  int64  `json:"post_id"`
	OwnerID string `json:"owner_id"`
}

// RoleAssignedPayload payload.
type RoleAssignedPayload struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// AccountToggledPayload payload.
type AccountToggledPayload struct {
	Username string `json:"username"`
	Active   bool   `json:"active"`
}
