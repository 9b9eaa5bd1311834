package dto

import (
	"time"

	"github.com/shelter-kit/shelter-service/internal/domain"
)

// CreateAnimalRequest payload.
type CreateAnimalRequest struct {
	Name        string    `json:"name" validate:"required,max=255"`
	Description string    `json:"description" validate:"required"`
	BirthDate   time.Time `json:"birth_date" validate:"required"`
	UserID      string    `json:"user_id" validate:"required"`
	Adopted     bool      `json:"adopted"`
}

// UpdateAnimalRequest payload. ID, when present, must match the path.
type UpdateAnimalRequest struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,max=255"`
	Description string    `json:"description" validate:"required"`
	BirthDate   time.Time `json:"birth_date" validate:"required"`
	UserID      string    `json:"user_id" validate:"required"`
	Adopted     bool      `json:"adopted"`
}

// AnimalResponse joins the owner's username into the representation.
type AnimalResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BirthDate   time.Time `json:"birth_date"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Adopted     bool      `json:"adopted"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewAnimalResponse maps a domain animal.
func NewAnimalResponse(animal *domain.Animal) AnimalResponse {
	return AnimalResponse{
		ID:          animal.ID,
		Name:        animal.Name,
		Description: animal.Description,
		BirthDate:   animal.BirthDate,
		UserID:      animal.UserID,
		Username:    animal.OwnerUsername,
		Adopted:     animal.Adopted,
		CreatedAt:   animal.CreatedAt,
	}
}
