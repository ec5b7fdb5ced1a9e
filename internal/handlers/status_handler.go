package handlers

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/norikae/internal/cache"
	"github.com/yourorg/norikae/internal/models"
)

// StatusHandler maneja el estado completo del sistema (para operación;
// el health check público es handlers.Status)
type StatusHandler struct {
	collector *MetricsCollector
	startTime time.Time
}

// NewStatusHandler crea un nuevo handler de status
func NewStatusHandler(collector *MetricsCollector) *StatusHandler {
	return &StatusHandler{
		collector: collector,
		startTime: time.Now(),
	}
}

// SystemStatus representa el estado completo del sistema
type SystemStatus struct {
	Backend BackendStatus               `json:"backend"`
	Scraper models.ScraperMetrics       `json:"scraper"`
	Caches  map[string]cache.CacheStats `json:"caches"`
}

// BackendStatus representa el estado del backend
type BackendStatus struct {
	Status       string `json:"status"`
	ResponseTime int    `json:"responseTime"`
	Uptime       int64  `json:"uptime"`
	Version      string `json:"version"`
}

// GetSystemStatus obtiene el estado completo del sistema
// GET /api/status/system
func (h *StatusHandler) GetSystemStatus(c *fiber.Ctx) error {
	startRequest := time.Now()

	version := os.Getenv("APP_VERSION")
	if version == "" {
		version = "1.0.0"
	}

	status := SystemStatus{
		Backend: BackendStatus{
			Status:  "online",
			Uptime:  int64(time.Since(h.startTime).Seconds()),
			Version: version,
		},
		Scraper: h.collector.Snapshot(),
		Caches:  cache.GetAllCacheStats(),
	}

	status.Backend.ResponseTime = int(time.Since(startRequest).Milliseconds())

	return c.JSON(status)
}
