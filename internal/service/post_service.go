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

var postPrivilegedRoles = []domain.Role{domain.RoleAdmin, domain.RoleModerator}

// PostCreateInput captures fields accepted at post creation.
type PostCreateInput struct {
	Title  string
	Body   string
	UserID string
	Status string
}

// PostUpdateInput captures mutable post fields. Status stays as created.
type PostUpdateInput struct {
	Title string
	Body  string
}

// PostService implements post CRUD with ownership enforcement.
type PostService struct {
	posts      repository.PostRepository
	comments   repository.CommentRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewPostService builds the service.
func NewPostService(posts repository.PostRepository, comments repository.CommentRepository, users repository.UserRepository, dispatcher events.Dispatcher) *PostService {
	return &PostService{posts: posts, comments: comments, users: users, dispatcher: dispatcher}
}

// List returns all posts with owner usernames joined.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	return s.posts.List(ctx)
}

// Get returns a single post.
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("post", map[string]any{"id": id})
		}
		return nil, err
	}
	return post, nil
}

// ListComments returns the comments attached to a post. An unknown post id
// yields an empty list, matching the read endpoints' open semantics.
func (s *PostService) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

// Create registers a new post after validating the owning user exists.
func (s *PostService) Create(ctx context.Context, actor *auth.Principal, input PostCreateInput) (*domain.Post, error) {
	owner, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewValidationError("invalid user_id", map[string]any{"user_id": input.UserID})
		}
		return nil, err
	}

	post := &domain.Post{
		Title:  input.Title,
		Body:   input.Body,
		UserID: input.UserID,
		Status: input.Status,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	post.OwnerUsername = owner.Username

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventPostCreated,
			Resource:   "post",
			ResourceID: formatID(post.ID),
			Actor:      events.Actor{UserID: actor.UserID, Username: actor.Username},
			Timestamp:  time.Now().UTC(),
			Payload:    events.PostCreatedPayload{Title: post.Title, OwnerID: post.UserID},
		})
	}
	return post, nil
}

// Update edits title and body, allowed for the owner or a privileged role.
// The creation timestamp and owner never change.
func (s *PostService) Update(ctx context.Context, actor *auth.Principal, id int64, input PostUpdateInput) (*domain.Post, error) {
	existing, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("post", map[string]any{"id": id})
		}
		return nil, err
	}

	if !auth.CanModify(actor, existing.UserID, postPrivilegedRoles...) {
		return nil, apperrors.NewForbidden("not the owner")
	}

	existing.Title = input.Title
	existing.Body = input.Body

	if err := s.posts.Update(ctx, existing); err != nil {
		return nil, s.resolveSaveError(ctx, id, err)
	}
	return existing, nil
}

// Delete removes a post and, through the schema cascade, its comments. The
// Admin/Moderator pre-condition is enforced at the route level.
func (s *PostService) Delete(ctx context.Context, actor *auth.Principal, id int64) error {
	existing, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("post", map[string]any{"id": id})
		}
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("post", map[string]any{"id": id})
		}
		return err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventPostDeleted,
			Resource:   "post",
			ResourceID: formatID(id),
			Actor:      events.Actor{UserID: actor.UserID, Username: actor.Username},
			Timestamp:  time.Now().UTC(),
			Payload:    events.PostDeletedPayload{Title: existing.Title},
		})
	}
	return nil
}

func (s *PostService) resolveSaveError(ctx context.Context, id int64, err error) error {
	if err != repository.ErrVersionConflict {
		return err
	}
	exists, existsErr := s.posts.ExistsByID(ctx, id)
	if existsErr != nil {
		return existsErr
	}
	if !exists {
		return apperrors.NewNotFound("post", map[string]any{"id": id})
	}
	return apperrors.NewConflict("post was modified concurrently", map[string]any{"id": id})
}
