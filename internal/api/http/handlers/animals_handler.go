package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/shelter-kit/shelter-service/internal/api/dto"
	"github.com/shelter-kit/shelter-service/internal/auth"
	"github.com/shelter-kit/shelter-service/internal/service"
	apperrors "github.com/shelter-kit/shelter-service/pkg/util"
)

// AnimalsHandler manages shelter animal endpoints.
type AnimalsHandler struct {
	animals *service.AnimalService
}

// NewAnimalsHandler constructs handler.
func NewAnimalsHandler(animalService *service.AnimalService) *AnimalsHandler {
	return &AnimalsHandler{animals: animalService}
}

// List handles GET /api/animals. Open to anonymous callers.
func (h *AnimalsHandler) List(c *fiber.Ctx) error {
	animals, err := h.animals.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.AnimalResponse, 0, len(animals))
	for i := range animals {
		items = append(items, dto.NewAnimalResponse(&animals[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/animals/:id. Open to anonymous callers.
func (h *AnimalsHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	animal, err := h.animals.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAnimalResponse(animal)})
}

// Create handles POST /api/animals.
func (h *AnimalsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateAnimalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	animal, err := h.animals.Create(c.UserContext(), principal, service.AnimalCreateInput{
		Name:        req.Name,
		Description: req.Description,
		BirthDate:   req.BirthDate,
		UserID:      req.UserID,
		Adopted:     req.Adopted,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAnimalResponse(animal)})
}

// Update handles PUT /api/animals/:id.
func (h *AnimalsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdateAnimalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ID != 0 && req.ID != id {
		return apperrors.NewValidationError("id mismatch", map[string]any{"id": req.ID})
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	animal, err := h.animals.Update(c.UserContext(), principal, id, service.AnimalUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		BirthDate:   req.BirthDate,
		UserID:      req.UserID,
		Adopted:     req.Adopted,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAnimalResponse(animal)})
}

// Delete handles DELETE /api/animals/:id.
func (h *AnimalsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.animals.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Adopt handles PATCH /api/animals/:id/adopt.
func (h *AnimalsHandler) Adopt(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.animals.Adopt(c.UserContext(), principal, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}
