package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/pick-your-pour/signup-service/internal/api/dto"
	"github.com/pick-your-pour/signup-service/internal/service"
)

// UploadsHandler exposes profile image upload.
type UploadsHandler struct {
	assets *service.AssetService
}

// NewUploadsHandler constructs handler.
func NewUploadsHandler(assets *service.AssetService) *UploadsHandler {
	return &UploadsHandler{assets: assets}
}

// Upload handles POST /upload-profile (multipart form).
func (h *UploadsHandler) Upload(c *fiber.Ctx) error {
	ownerKey := c.FormValue("userId")
	if ownerKey == "" {
		return fiber.NewError(http.StatusBadRequest, "userId required")
	}

	fileHeader, err := c.FormFile("profileImage")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "profileImage required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxUploadBytes+1))
	if err != nil {
		return err
	}

	url, user, err := h.assets.UploadProfileImage(c.UserContext(), ownerKey, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":  "Profile image uploaded successfully",
		"imageUrl": url,
		"user":     dto.NewUserResponse(user),
	})
}
