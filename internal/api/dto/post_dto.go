package dto

import (
	"time"

	"github.com/shelter-kit/shelter-service/internal/domain"
)

// CreatePostRequest payload.
type CreatePostRequest struct {
	Title  string `json:"title" validate:"required,max=255"`
	Body   string `json:"body" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
	Status string `json:"status"`
}

// UpdatePostRequest payload. Only title and body are mutable.
type UpdatePostRequest struct {
	ID    int64  `json:"id"`
	Title string `json:"title" validate:"required,max=255"`
	Body  string `json:"body" validate:"required"`
}

// PostResponse joins the owner's username into the representation.
type PostResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPostResponse maps a domain post.
func NewPostResponse(post *domain.Post) PostResponse {
	return PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Body:      post.Body,
		UserID:    post.UserID,
		Username:  post.OwnerUsername,
		Status:    post.Status,
		CreatedAt: post.CreatedAt,
	}
}
