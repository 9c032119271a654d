package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/middleware"
	"wiki-echo/internal/service/preference"
)

type PreferenceHandler struct {
	prefService preference.Service
}

func NewPreferenceHandler(prefService preference.Service) *PreferenceHandler {
	return &PreferenceHandler{prefService: prefService}
}

func (h *PreferenceHandler) Get(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	settings, err := h.prefService.Get(c.UserContext(), user)
	if err != nil {
		return err
	}

	return c.JSON(settings)
}

func (h *PreferenceHandler) Update(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var input domain.UpdatePreferencesInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	settings, err := h.prefService.Update(c.UserContext(), user, input)
	if err != nil {
		if errors.Is(err, preference.ErrUnknownCategory) ||
			errors.Is(err, preference.ErrUnknownFormat) ||
			errors.Is(err, preference.ErrInvalidFrequency) {
			return middleware.BadRequest(err.Error())
		}
		return err
	}

	return c.JSON(settings)
}
