package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/middleware"
	"wiki-echo/internal/repository"
	"wiki-echo/internal/service/notification"
)

type EventHandler struct {
	notifService notification.Service
}

func NewEventHandler(notifService notification.Service) *EventHandler {
	return &EventHandler{notifService: notifService}
}

type eventResponse struct {
	*domain.Event
	Extra domain.EventExtra `json:"extra,omitempty"`
	Agent *domain.Agent     `json:"agent,omitempty"`
}

func newEventResponse(event *domain.Event) eventResponse {
	return eventResponse{Event: event, Extra: event.Extra(), Agent: event.Agent}
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	var input domain.NotifyInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Type == "" {
		return middleware.BadRequest("type is required")
	}

	event, err := h.notifService.Notify(c.UserContext(), input)
	if err != nil {
		return mapServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(newEventResponse(event))
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return middleware.BadRequest("Invalid event ID")
	}

	event, err := h.notifService.GetEvent(c.UserContext(), int64(id))
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return middleware.NotFound("Event not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(newEventResponse(event))
}

func mapServiceError(err error) error {
	if errors.Is(err, notification.ErrUnknownType) {
		return middleware.BadRequest(err.Error())
	}
	return err
}
