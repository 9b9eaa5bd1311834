package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shelter-kit/shelter-service/internal/domain"
	"github.com/shelter-kit/shelter-service/internal/events"
	"github.com/shelter-kit/shelter-service/internal/repository"
)

// fakeUserRepo is an in-memory stand-in for the Postgres user repository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	roles map[string][]domain.Role
	known map[domain.Role]bool

	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: make(map[string]*domain.User),
		roles: make(map[string][]domain.Role),
		known: map[domain.Role]bool{
			domain.RoleAdmin:     true,
			domain.RoleModerator: true,
			domain.RoleUser:      true,
		},
	}
}

func (f *fakeUserRepo) seed(user *domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *user
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	f.users[clone.ID] = &clone
	f.roles[clone.ID] = append([]domain.Role{}, user.Roles...)
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	user.CreatedAt = time.Now().UTC()
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.User
	for _, user := range f.users {
		result = append(result, *user)
	}
	return result, nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsActive = active
	return nil
}

func (f *fakeUserRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserRepo) GetRoles(_ context.Context, userID string) ([]domain.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Role{}, f.roles[userID]...), nil
}

func (f *fakeUserRepo) ReplaceRoles(_ context.Context, userID string, roles []domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[userID] = append([]domain.Role{}, roles...)
	return nil
}

func (f *fakeUserRepo) RoleExists(_ context.Context, role domain.Role) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.known[role], nil
}

// fakeAnimalRepo mimics the optimistic-concurrency behavior of the real
// repository: updates match on id+version and bump the version.
type fakeAnimalRepo struct {
	mu      sync.Mutex
	nextID  int64
	animals map[int64]*domain.Animal

	updateErr      error
	existsOverride *bool
}

func newFakeAnimalRepo() *fakeAnimalRepo {
	return &fakeAnimalRepo{nextID: 1, animals: make(map[int64]*domain.Animal)}
}

func (f *fakeAnimalRepo) Create(_ context.Context, animal *domain.Animal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	animal.ID = f.nextID
	f.nextID++
	animal.CreatedAt = time.Now().UTC()
	animal.Version = 1
	clone := *animal
	f.animals[animal.ID] = &clone
	return nil
}

func (f *fakeAnimalRepo) Update(_ context.Context, animal *domain.Animal) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.animals[animal.ID]
	if !ok || stored.Version != animal.Version {
		return repository.ErrVersionConflict
	}
	animal.Version++
	clone := *animal
	clone.CreatedAt = stored.CreatedAt
	f.animals[animal.ID] = &clone
	return nil
}

func (f *fakeAnimalRepo) GetByID(_ context.Context, id int64) (*domain.Animal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	animal, ok := f.animals[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *animal
	return &clone, nil
}

func (f *fakeAnimalRepo) List(_ context.Context) ([]domain.Animal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Animal
	for _, animal := range f.animals {
		result = append(result, *animal)
	}
	return result, nil
}

func (f *fakeAnimalRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.animals[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.animals, id)
	return nil
}

func (f *fakeAnimalRepo) MarkAdopted(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	animal, ok := f.animals[id]
	if !ok {
		return pgx.ErrNoRows
	}
	animal.Adopted = true
	animal.Version++
	return nil
}

func (f *fakeAnimalRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	if f.existsOverride != nil {
		return *f.existsOverride, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.animals[id]
	return ok, nil
}

type fakePostRepo struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]*domain.Post

	updateErr      error
	existsOverride *bool
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{nextID: 1, posts: make(map[int64]*domain.Post)}
}

func (f *fakePostRepo) Create(_ context.Context, post *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post.ID = f.nextID
	f.nextID++
	post.CreatedAt = time.Now().UTC()
	post.Version = 1
	clone := *post
	f.posts[post.ID] = &clone
	return nil
}

func (f *fakePostRepo) Update(_ context.Context, post *domain.Post) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.posts[post.ID]
	if !ok || stored.Version != post.Version {
		return repository.ErrVersionConflict
	}
	post.Version++
	clone := *post
	clone.CreatedAt = stored.CreatedAt
	f.posts[post.ID] = &clone
	return nil
}

func (f *fakePostRepo) GetByID(_ context.Context, id int64) (*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *post
	return &clone, nil
}

func (f *fakePostRepo) List(_ context.Context) ([]domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Post
	for _, post := range f.posts {
		result = append(result, *post)
	}
	return result, nil
}

func (f *fakePostRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	if f.existsOverride != nil {
		return *f.existsOverride, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.posts[id]
	return ok, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   int64
	comments map[int64]*domain.Comment

	updateErr error
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1, comments: make(map[int64]*domain.Comment)}
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment.ID = f.nextID
	f.nextID++
	comment.CreatedAt = time.Now().UTC()
	comment.Version = 1
	clone := *comment
	f.comments[comment.ID] = &clone
	return nil
}

func (f *fakeCommentRepo) Update(_ context.Context, comment *domain.Comment) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.comments[comment.ID]
	if !ok || stored.Version != comment.Version {
		return repository.ErrVersionConflict
	}
	comment.Version++
	clone := *comment
	clone.CreatedAt = stored.CreatedAt
	f.comments[comment.ID] = &clone
	return nil
}

func (f *fakeCommentRepo) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *comment
	return &clone, nil
}

func (f *fakeCommentRepo) List(_ context.Context) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Comment
	for _, comment := range f.comments {
		result = append(result, *comment)
	}
	return result, nil
}

func (f *fakeCommentRepo) ListByPost(_ context.Context, postID int64) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Comment
	for _, comment := range f.comments {
		if comment.PostID == postID {
			result = append(result, *comment)
		}
	}
	return result, nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.comments[id]
	return ok, nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) eventsOfType(t events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.Event
	for _, event := range d.published {
		if event.Type == t {
			result = append(result, event)
		}
	}
	return result
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)
var _ repository.AnimalRepository = (*fakeAnimalRepo)(nil)
var _ repository.PostRepository = (*fakePostRepo)(nil)
var _ repository.CommentRepository = (*fakeCommentRepo)(nil)
