package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/pick-your-pour/signup-service/internal/api/dto"
	"github.com/pick-your-pour/signup-service/internal/domain"
	"github.com/pick-your-pour/signup-service/internal/service"
)

// UniquenessHandler exposes the advisory availability pre-check.
type UniquenessHandler struct {
	registration *service.RegistrationService
}

// NewUniquenessHandler constructs handler.
func NewUniquenessHandler(registration *service.RegistrationService) *UniquenessHandler {
	return &UniquenessHandler{registration: registration}
}

// Check handles POST /check-uniqueness.
func (h *UniquenessHandler) Check(c *fiber.Ctx) error {
	var req dto.UniquenessCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	isUnique, err := h.registration.CheckUniqueness(c.UserContext(), domain.UniqueField(req.Field), req.Value)
	if err != nil {
		return err
	}

	return c.JSON(dto.UniquenessCheckResponse{IsUnique: isUnique})
}
