package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/middleware"
	"wiki-echo/internal/service/user"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	u := middleware.GetCurrentUser(c)
	if u == nil {
		return middleware.Unauthorized("User not found")
	}
	return c.JSON(u)
}

// Sync mirrors a wiki account into the notification store.
func (h *UserHandler) Sync(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return middleware.BadRequest("Invalid user ID")
	}

	var input domain.SyncUserInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	u, err := h.userService.Sync(c.UserContext(), int64(id), input)
	if err != nil {
		if errors.Is(err, user.ErrNameRequired) || errors.Is(err, user.ErrInvalidFrequency) {
			return middleware.BadRequest(err.Error())
		}
		return err
	}

	return c.JSON(u)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return middleware.BadRequest("Invalid user ID")
	}

	u, err := h.userService.GetByID(c.UserContext(), int64(id))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return middleware.NotFound("User not found")
		}
		return err
	}

	return c.JSON(u)
}
