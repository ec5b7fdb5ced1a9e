package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/norikae/internal/models"
)

// Status responde el health check del servicio.
// Payload de forma estática con timestamp actual; NUNCA toca la red.
// GET /api/status
func Status(c *fiber.Ctx) error {
	return c.JSON(models.NewStatusResponse())
}
