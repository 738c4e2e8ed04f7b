package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studyabroad-hub/api/database"
	"github.com/studyabroad-hub/api/utils/response"
)

func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(); err != nil {
		return response.ServiceUnavailable(c, "Database unreachable")
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
