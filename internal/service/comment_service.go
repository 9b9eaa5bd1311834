package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shelter-kit/shelter-service/internal/auth"
	"github.com/shelter-kit/shelter-service/internal/domain"
	"github.com/shelter-kit/shelter-service/internal/events"
	"github.com/shelter-kit/shelter-service/internal/repository"
	apperrors "github.com/shelter-kit/shelter-service/pkg/util"
)

// Comments are moderated by admins only; moderators hold no special power here.
var commentPrivilegedRoles = []domain.Role{domain.RoleAdmin}

// CommentCreateInput captures fields accepted at comment creation.
type CommentCreateInput struct {
	Body   string
	UserID string
	PostID int64
	Status string
}

// CommentUpdateInput captures mutable comment fields.
type CommentUpdateInput struct {
	Body   string
	Status string
}

// CommentService implements comment CRUD with ownership enforcement.
type CommentService struct {
	comments   repository.CommentRepository
	posts      repository.PostRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewCommentService builds the service.
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, users repository.UserRepository, dispatcher events.Dispatcher) *CommentService {
	return &CommentService{comments: comments, posts: posts, users: users, dispatcher: dispatcher}
}

// List returns all comments with author usernames joined.
func (s *CommentService) List(ctx context.Context) ([]domain.Comment, error) {
	return s.comments.List(ctx)
}

// Get returns a single comment.
func (s *CommentService) Get(ctx context.Context, id int64) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("comment", map[string]any{"id": id})
		}
		return nil, err
	}
	return comment, nil
}

// Create attaches a new comment to an existing post. Both the referenced
// post and the authoring user must exist; nothing is persisted otherwise.
func (s *CommentService) Create(ctx context.Context, actor *auth.Principal, input CommentCreateInput) (*domain.Comment, error) {
	if exists, err := s.posts.ExistsByID(ctx, input.PostID); err != nil {
		return nil, err
	} else if !exists {
		return nil, apperrors.NewValidationError("invalid post_id", map[string]any{"post_id": input.PostID})
	}

	author, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewValidationError("invalid user_id", map[string]any{"user_id": input.UserID})
		}
		return nil, err
	}

	comment := &domain.Comment{
		Body:   input.Body,
		UserID: input.UserID,
		PostID: input.PostID,
		Status: input.Status,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.OwnerUsername = author.Username

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventCommentCreated,
			Resource:   "comment",
			ResourceID: formatID(comment.ID),
			Actor:      events.Actor{UserID: actor.UserID, Username: actor.Username},
			Timestamp:  time.Now().UTC(),
			Payload:    events.CommentCreatedPayload{PostID: comment.PostID, OwnerID: comment.UserID},
		})
	}
	return comment, nil
}

// Update edits body and status, allowed for the author or an admin.
func (s *CommentService) Update(ctx context.Context, actor *auth.Principal, id int64, input CommentUpdateInput) (*domain.Comment, error) {
	existing, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("comment", map[string]any{"id": id})
		}
		return nil, err
	}

	if !auth.CanModify(actor, existing.UserID, commentPrivilegedRoles...) {
		return nil, apperrors.NewForbidden("not the author")
	}

	existing.Body = input.Body
	existing.Status = input.Status

	if err := s.comments.Update(ctx, existing); err != nil {
		return nil, s.resolveSaveError(ctx, id, err)
	}
	return existing, nil
}

// Delete removes a comment, allowed for the author or an admin.
func (s *CommentService) Delete(ctx context.Context, actor *auth.Principal, id int64) error {
	existing, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("comment", map[string]any{"id": id})
		}
		return err
	}

	if !auth.CanModify(actor, existing.UserID, commentPrivilegedRoles...) {
		return apperrors.NewForbidden("not the author")
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("comment", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

func (s *CommentService) resolveSaveError(ctx context.Context, id int64, err error) error {
	if err != repository.ErrVersionConflict {
		return err
	}
	exists, existsErr := s.comments.ExistsByID(ctx, id)
	if existsErr != nil {
		return existsErr
	}
	if !exists {
		return apperrors.NewNotFound("comment", map[string]any{"id": id})
	}
	return apperrors.NewConflict("comment was modified concurrently", map[string]any{"id": id})
}
