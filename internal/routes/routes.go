package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/yourorg/norikae/internal/debug"
	"github.com/yourorg/norikae/internal/handlers"
	"github.com/yourorg/norikae/internal/middleware"
)

// Deps agrupa los handlers ya construidos que necesitan las rutas
type Deps struct {
	Transit *handlers.TransitHandler
	Status  *handlers.StatusHandler
	Metrics *handlers.MetricsHandler
}

func Register(app *fiber.App, deps Deps) {
	// ============================================================================
	// API PÚBLICA
	// ============================================================================
	api := app.Group("/api")

	// Health check (sin rate limiting, nunca toca la red)
	api.Get("/status", handlers.Status)

	// ============================================================================
	// TRANSIT (scraping de Jorudan)
	// RATE LIMITING: ScrapingRateLimiter - operación costosa contra el origen
	// ============================================================================
	api.Get("/transit", middleware.ScrapingRateLimiter(), deps.Transit.GetTransit)
	// GET /api/transit?format=json|html
	// Retorna hasta 2 candidatos de transbordo del itinerario fijo

	// ============================================================================
	// STATUS / STATISTICS (operación)
	// ============================================================================
	api.Get("/status/system", deps.Status.GetSystemStatus)
	// GET /api/status/system - Estado completo (backend, scraper, cachés)

	stats := api.Group("/stats")
	stats.Get("/scraper", deps.Metrics.GetScraperMetrics)
	// GET /api/stats/scraper - Métricas de scraping de Jorudan

	// ============================================================================
	// CACHE MANAGEMENT
	// ============================================================================
	api.Get("/cache/stats", handlers.GetCacheStats)
	api.Delete("/cache", handlers.ClearCache)
	// DELETE /api/cache?type=transit|all

	// ============================================================================
	// DEBUG DASHBOARD WEBSOCKET
	// ============================================================================
	// WebSocket para el dashboard web (siempre disponible)
	app.Use("/ws/debug", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/debug", websocket.New(func(c *websocket.Conn) {
		debug.HandleWebSocketFiber(c)
	}))
}
