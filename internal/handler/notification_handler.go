package handler

import (
	"github.com/gofiber/fiber/v2"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/middleware"
	"wiki-echo/internal/service/formatter"
	"wiki-echo/internal/service/notification"
)

type NotificationHandler struct {
	notifService notification.Service
}

func NewNotificationHandler(notifService notification.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

type markReadRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	format := c.Query("format")
	if format != "" && !validFormat(format) {
		return middleware.BadRequest("Unknown format")
	}

	ts, offset, err := domain.ParseContinue(c.Query("continue"))
	if err != nil {
		return middleware.BadRequest("Invalid continue token")
	}

	params := domain.ListParams{
		Limit:     c.QueryInt("limit", domain.DefaultListLimit),
		Timestamp: ts,
		Offset:    offset,
	}

	result, err := h.notifService.List(c.UserContext(), user, format, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	count, err := h.notifService.UnreadCount(c.UserContext(), user, c.Query("source", domain.DBReplica))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(count)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	var req markReadRequest
	if err := c.BodyParser(&req); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if len(req.IDs) == 0 {
		return middleware.BadRequest("ids is required")
	}

	updated, err := h.notifService.MarkRead(c.UserContext(), user, req.IDs)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"updated": updated})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	updated, err := h.notifService.MarkAllRead(c.UserContext(), user)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"updated": updated})
}

func validFormat(format string) bool {
	for _, f := range formatter.Formats() {
		if f == format {
			return true
		}
	}
	return false
}
