package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/pick-your-pour/signup-service/internal/api/dto"
	"github.com/pick-your-pour/signup-service/internal/repository"
	"github.com/pick-your-pour/signup-service/internal/service"
)

// UsersHandler exposes account creation.
type UsersHandler struct {
	registration *service.RegistrationService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(registration *service.RegistrationService) *UsersHandler {
	return &UsersHandler{registration: registration}
}

// Create handles POST /create-user.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "username and email required")
	}

	user, err := h.registration.Register(c.UserContext(), req.Username, req.Email, req.ProfileImageURL, req.Phone)
	if err != nil {
		// A constraint violation after a passing pre-check is a normal
		// outcome of the two-phase shape; keep the field visible so the
		// client can say which credential collided.
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return c.Status(http.StatusConflict).JSON(fiber.Map{
				"error": dup.Error(),
				"field": string(dup.Field),
			})
		}
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    dto.NewUserResponse(user),
	})
}
