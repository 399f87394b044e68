package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/pick-your-pour/signup-service/internal/api/dto"
	"github.com/pick-your-pour/signup-service/internal/service"
)

// EventsHandler exposes visitor interaction tracking.
type EventsHandler struct {
	tracking *service.TrackingService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(tracking *service.TrackingService) *EventsHandler {
	return &EventsHandler{tracking: tracking}
}

// Track handles POST /track-event.
func (h *EventsHandler) Track(c *fiber.Ctx) error {
	var req dto.TrackEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.EventType == "" || req.Page == "" {
		return fiber.NewError(http.StatusBadRequest, "eventType and page required")
	}

	var ip *string
	if addr := c.IP(); addr != "" {
		ip = &addr
	}

	event, err := h.tracking.Track(c.UserContext(), req.EventType, req.Page, req.Element, ip)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Event tracked successfully",
		"event":   dto.NewVisitorEventResponse(event),
	})
}
