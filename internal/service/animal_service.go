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

// animalPrivilegedRoles may update animals they do not own.
var animalPrivilegedRoles = []domain.Role{domain.RoleAdmin, domain.RoleModerator}

// AnimalCreateInput captures fields accepted at animal creation.
type AnimalCreateInput struct {
	Name        string
	Description string
	BirthDate   time.Time
	UserID      string
	Adopted     bool
}

// AnimalUpdateInput captures mutable animal fields.
type AnimalUpdateInput struct {
	Name        string
	Description string
	BirthDate   time.Time
	UserID      string
	Adopted     bool
}

// AnimalService implements animal CRUD with ownership enforcement.
type AnimalService struct {
	animals    repository.AnimalRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewAnimalService builds the service.
func NewAnimalService(animals repository.AnimalRepository, users repository.UserRepository, dispatcher events.Dispatcher) *AnimalService {
	return &AnimalService{animals: animals, users: users, dispatcher: dispatcher}
}

// List returns all animals with owner usernames joined.
func (s *AnimalService) List(ctx context.Context) ([]domain.Animal, error) {
	return s.animals.List(ctx)
}

// Get returns a single animal.
func (s *AnimalService) Get(ctx context.Context, id int64) (*domain.Animal, error) {
	animal, err := s.animals.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("animal", map[string]any{"id": id})
		}
		return nil, err
	}
	return animal, nil
}

// Create registers a new animal. The owning user must exist; the creation
// timestamp is set by the store, never by the caller.
func (s *AnimalService) Create(ctx context.Context, actor *auth.Principal, input AnimalCreateInput) (*domain.Animal, error) {
	owner, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewValidationError("invalid user_id", map[string]any{"user_id": input.UserID})
		}
		return nil, err
	}

	animal := &domain.Animal{
		Name:        input.Name,
		Description: input.Description,
		BirthDate:   input.BirthDate.UTC(),
		UserID:      input.UserID,
		Adopted:     input.Adopted,
	}
	if err := s.animals.Create(ctx, animal); err != nil {
		return nil, err
	}
	animal.OwnerUsername = owner.Username

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventAnimalCreated,
			Resource:   "animal",
			ResourceID: formatID(animal.ID),
			Actor:      events.Actor{UserID: actor.UserID, Username: actor.Username},
			Timestamp:  time.Now().UTC(),
			Payload:    events.AnimalCreatedPayload{Name: animal.Name, OwnerID: animal.UserID},
		})
	}
	return animal, nil
}

// Update applies mutable fields, allowed for the owner or a privileged role.
// A save racing a concurrent update surfaces as conflict, downgraded to not
// found when the row has vanished.
func (s *AnimalService) Update(ctx context.Context, actor *auth.Principal, id int64, input AnimalUpdateInput) (*domain.Animal, error) {
	if exists, err := s.users.ExistsByID(ctx, input.UserID); err != nil {
		return nil, err
	} else if !exists {
		return nil, apperrors.NewValidationError("invalid user_id", map[string]any{"user_id": input.UserID})
	}

	existing, err := s.animals.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("animal", map[string]any{"id": id})
		}
		return nil, err
	}

	if !auth.CanModify(actor, existing.UserID, animalPrivilegedRoles...) {
		return nil, apperrors.NewForbidden("not the owner")
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.BirthDate = input.BirthDate.UTC()
	existing.Adopted = input.Adopted

	if err := s.animals.Update(ctx, existing); err != nil {
		return nil, s.resolveSaveError(ctx, id, err)
	}
	return existing, nil
}

// Delete removes an animal. The Admin-only pre-condition is enforced at the
// route level.
func (s *AnimalService) Delete(ctx context.Context, id int64) error {
	if err := s.animals.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("animal", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// Adopt marks an animal as adopted.
func (s *AnimalService) Adopt(ctx context.Context, actor *auth.Principal, id int64) error {
	animal, err := s.animals.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("animal", map[string]any{"id": id})
		}
		return err
	}

	if err := s.animals.MarkAdopted(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("animal", map[string]any{"id": id})
		}
		return err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventAnimalAdopted,
			Resource:   "animal",
			ResourceID: formatID(id),
			Actor:      events.Actor{UserID: actor.UserID, Username: actor.Username},
			Timestamp:  time.Now().UTC(),
			Payload:    events.AnimalAdoptedPayload{Name: animal.Name},
		})
	}
	return nil
}

func (s *AnimalService) resolveSaveError(ctx context.Context, id int64, err error) error {
	if err != repository.ErrVersionConflict {
		return err
	}
	exists, existsErr := s.animals.ExistsByID(ctx, id)
	if existsErr != nil {
		return existsErr
	}
	if !exists {
		return apperrors.NewNotFound("animal", map[string]any{"id": id})
	}
	return apperrors.NewConflict("animal was modified concurrently", map[string]any{"id": id})
}
