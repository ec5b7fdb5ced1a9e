package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// ============================================================================
// RATE LIMITING MIDDLEWARE
// ============================================================================
// Cada request al endpoint de transit dispara una conversación de 3 pasos
// contra Jorudan: hay que proteger al sitio origen (y al servicio) de ráfagas.

// RateLimiter crea un middleware de rate limiting general
func RateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        100,             // 100 requests
		Expiration: 1 * time.Minute, // por minuto
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() // Limitar por IP
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "rate limit exceeded",
				"message":     "demasiadas solicitudes, intenta de nuevo en un minuto",
				"retry_after": 60,
			})
		},
		SkipFailedRequests:     false, // Contar requests fallidos
		SkipSuccessfulRequests: false, // Contar requests exitosos
		Storage:                nil,   // Usar almacenamiento en memoria (default)
	})
}

// ScrapingRateLimiter para el endpoint de scraping (muy limitado:
// cada request no cacheado son 3 llamadas HTTP al sitio origen)
func ScrapingRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        10,              // Solo 10 requests
		Expiration: 1 * time.Minute, // por minuto
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "rate limit exceeded",
				"message":     "demasiadas solicitudes de scraping, intenta de nuevo en un minuto",
				"retry_after": 60,
			})
		},
	})
}
