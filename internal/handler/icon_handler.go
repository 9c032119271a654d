package handler

import (
	"regexp"

	"github.com/gofiber/fiber/v2"

	"wiki-echo/internal/middleware"
	"wiki-echo/internal/service/icon"
)

const maxIconSize = 1 << 20

var iconNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

type IconHandler struct {
	iconService icon.Service
}

func NewIconHandler(iconService icon.Service) *IconHandler {
	return &IconHandler{iconService: iconService}
}

// Upload stores the rasterized PNG used for an icon in emails.
func (h *IconHandler) Upload(c *fiber.Ctx) error {
	name := c.Params("name")
	if !iconNamePattern.MatchString(name) {
		return middleware.BadRequest("Invalid icon name")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("File is required")
	}
	if file.Size > maxIconSize {
		return middleware.BadRequest("File size exceeds 1MB limit")
	}
	if ct := file.Header.Get("Content-Type"); ct != "" && ct != "image/png" {
		return middleware.BadRequest("Icons must be PNG images")
	}

	reader, err := file.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to read file")
	}
	defer reader.Close()

	dir := c.Query("dir", "ltr")
	if err := h.iconService.Upload(c.UserContext(), name, dir, reader, file.Size); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"name": name,
		"url":  h.iconService.RasterizedURL(c.UserContext(), name, langForDir(dir)),
	})
}

func langForDir(dir string) string {
	if dir == "rtl" {
		return "he"
	}
	return "en"
}
