package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shelter-kit/shelter-service/internal/api/http/handlers"
	"github.com/shelter-kit/shelter-service/internal/auth"
	"github.com/shelter-kit/shelter-service/internal/config"
	"github.com/shelter-kit/shelter-service/internal/domain"
	"github.com/shelter-kit/shelter-service/internal/events"
	"github.com/shelter-kit/shelter-service/internal/observability"
	"github.com/shelter-kit/shelter-service/internal/repository"
	"github.com/shelter-kit/shelter-service/internal/service"
)

// memoryStore backs all repositories for transport-level tests.
type memoryStore struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	roles    map[string][]domain.Role
	nextID   int64
	animals  map[int64]*domain.Animal
	posts    map[int64]*domain.Post
	comments map[int64]*domain.Comment
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    make(map[string]*domain.User),
		roles:    make(map[string][]domain.Role),
		nextID:   1,
		animals:  make(map[int64]*domain.Animal),
		posts:    make(map[int64]*domain.Post),
		comments: make(map[int64]*domain.Comment),
	}
}

func (s *memoryStore) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

type memUserRepo struct{ store *memoryStore }

func (r memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user.CreatedAt = time.Now().UTC()
	clone := *user
	r.store.users[user.ID] = &clone
	return nil
}

func (r memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r memUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.User
	for _, user := range r.store.users {
		result = append(result, *user)
	}
	return result, nil
}

func (r memUserRepo) SetActive(_ context.Context, id string, active bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsActive = active
	return nil
}

func (r memUserRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.users[id]
	return ok, nil
}

func (r memUserRepo) GetRoles(_ context.Context, userID string) ([]domain.Role, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]domain.Role{}, r.store.roles[userID]...), nil
}

func (r memUserRepo) ReplaceRoles(_ context.Context, userID string, roles []domain.Role) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.roles[userID] = append([]domain.Role{}, roles...)
	return nil
}

func (r memUserRepo) RoleExists(_ context.Context, role domain.Role) (bool, error) {
	switch role {
	case domain.RoleAdmin, domain.RoleModerator, domain.RoleUser:
		return true, nil
	}
	return false, nil
}

type memAnimalRepo struct{ store *memoryStore }

func (r memAnimalRepo) Create(_ context.Context, animal *domain.Animal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	animal.ID = r.store.id()
	animal.CreatedAt = time.Now().UTC()
	animal.Version = 1
	clone := *animal
	r.store.animals[animal.ID] = &clone
	return nil
}

func (r memAnimalRepo) Update(_ context.Context, animal *domain.Animal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.animals[animal.ID]
	if !ok || stored.Version != animal.Version {
		return repository.ErrVersionConflict
	}
	animal.Version++
	clone := *animal
	clone.CreatedAt = stored.CreatedAt
	r.store.animals[animal.ID] = &clone
	return nil
}

func (r memAnimalRepo) GetByID(_ context.Context, id int64) (*domain.Animal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	animal, ok := r.store.animals[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *animal
	if owner, ok := r.store.users[animal.UserID]; ok {
		clone.OwnerUsername = owner.Username
	}
	return &clone, nil
}

func (r memAnimalRepo) List(_ context.Context) ([]domain.Animal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Animal
	for _, animal := range r.store.animals {
		clone := *animal
		if owner, ok := r.store.users[animal.UserID]; ok {
			clone.OwnerUsername = owner.Username
		}
		result = append(result, clone)
	}
	return result, nil
}

func (r memAnimalRepo) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.animals[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.animals, id)
	return nil
}

func (r memAnimalRepo) MarkAdopted(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	animal, ok := r.store.animals[id]
	if !ok {
		return pgx.ErrNoRows
	}
	animal.Adopted = true
	animal.Version++
	return nil
}

func (r memAnimalRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.animals[id]
	return ok, nil
}

type memPostRepo struct{ store *memoryStore }

func (r memPostRepo) Create(_ context.Context, post *domain.Post) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	post.ID = r.store.id()
	post.CreatedAt = time.Now().UTC()
	post.Version = 1
	clone := *post
	r.store.posts[post.ID] = &clone
	return nil
}

func (r memPostRepo) Update(_ context.Context, post *domain.Post) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.posts[post.ID]
	if !ok || stored.Version != post.Version {
		return repository.ErrVersionConflict
	}
	post.Version++
	clone := *post
	clone.CreatedAt = stored.CreatedAt
	r.store.posts[post.ID] = &clone
	return nil
}

func (r memPostRepo) GetByID(_ context.Context, id int64) (*domain.Post, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	post, ok := r.store.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *post
	return &clone, nil
}

func (r memPostRepo) List(_ context.Context) ([]domain.Post, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Post
	for _, post := range r.store.posts {
		result = append(result, *post)
	}
	return result, nil
}

func (r memPostRepo) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.posts, id)
	// mirror the schema's ON DELETE CASCADE
	for commentID, comment := range r.store.comments {
		if comment.PostID == id {
			delete(r.store.comments, commentID)
		}
	}
	return nil
}

func (r memPostRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.posts[id]
	return ok, nil
}

type memCommentRepo struct{ store *memoryStore }

func (r memCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	comment.ID = r.store.id()
	comment.CreatedAt = time.Now().UTC()
	comment.Version = 1
	clone := *comment
	r.store.comments[comment.ID] = &clone
	return nil
}

func (r memCommentRepo) Update(_ context.Context, comment *domain.Comment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.comments[comment.ID]
	if !ok || stored.Version != comment.Version {
		return repository.ErrVersionConflict
	}
	comment.Version++
	clone := *comment
	clone.CreatedAt = stored.CreatedAt
	r.store.comments[comment.ID] = &clone
	return nil
}

func (r memCommentRepo) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	comment, ok := r.store.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *comment
	return &clone, nil
}

func (r memCommentRepo) List(_ context.Context) ([]domain.Comment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Comment
	for _, comment := range r.store.comments {
		result = append(result, *comment)
	}
	return result, nil
}

func (r memCommentRepo) ListByPost(_ context.Context, postID int64) ([]domain.Comment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.Comment
	for _, comment := range r.store.comments {
		if comment.PostID == postID {
			result = append(result, *comment)
		}
	}
	return result, nil
}

func (r memCommentRepo) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.comments, id)
	return nil
}

func (r memCommentRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.comments[id]
	return ok, nil
}

// testServer wires the full transport stack over in-memory repositories.
type testServer struct {
	app    *fiber.App
	store  *memoryStore
	tokens *auth.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:          "test-secret",
			TokenLifetimeHours: 1,
			Issuer:             "shelter-service",
			Audience:           "shelter-service-clients",
			BcryptCost:         bcrypt.MinCost,
		},
	}

	store := newMemoryStore()
	userRepo := memUserRepo{store: store}
	animalRepo := memAnimalRepo{store: store}
	postRepo := memPostRepo{store: store}
	commentRepo := memCommentRepo{store: store}

	tokens, err := auth.NewTokenManager(cfg.Auth)
	require.NoError(t, err)

	dispatcher := events.NewInMemoryDispatcher()
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Tokens:     tokens,
		Dispatcher: dispatcher,
	})
	userService := service.NewUserService(userRepo, dispatcher)
	animalService := service.NewAnimalService(animalRepo, userRepo, dispatcher)
	postService := service.NewPostService(postRepo, commentRepo, userRepo, dispatcher)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, dispatcher)

	authMiddleware := auth.NewAuthMiddleware(tokens, nil)

	app := fiber.New()
	logger := zap.NewNop()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("shelter-service", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authService, authMiddleware),
		Users:          handlers.NewUsersHandler(userService),
		Animals:        handlers.NewAnimalsHandler(animalService),
		Posts:          handlers.NewPostsHandler(postService),
		Comments:       handlers.NewCommentsHandler(commentService),
		AuthMiddleware: authMiddleware,
	})

	return &testServer{app: app, store: store, tokens: tokens}
}

// seedUser creates an account with the given roles and returns a valid
// bearer token for it.
func (s *testServer) seedUser(t *testing.T, id, username, password string, active bool, roles ...domain.Role) string {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)

	s.store.mu.Lock()
	s.store.users[id] = &domain.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsActive:     active,
		CreatedAt:    time.Now().UTC(),
	}
	s.store.roles[id] = append([]domain.Role{}, roles...)
	s.store.mu.Unlock()

	token, _, err := s.tokens.Issue(&domain.User{ID: id, Username: username}, roles, time.Now().UTC())
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func errorCode(t *testing.T, payload map[string]any) string {
	t.Helper()
	errObj, ok := payload["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %v", payload)
	code, _ := errObj["code"].(string)
	return code
}
