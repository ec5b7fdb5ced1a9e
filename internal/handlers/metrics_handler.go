package handlers

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/norikae/internal/debug"
	"github.com/yourorg/norikae/internal/models"
)

// ============================================================================
// MÉTRICAS DEL SCRAPER (EN MEMORIA)
// ============================================================================
// Contadores por resultado de cada corrida del pipeline contra Jorudan.
// Sin persistencia: el servicio es stateless; las métricas viven lo que vive
// el proceso y alcanzan para diagnóstico de operación.

// MetricsCollector acumula resultados de corridas del pipeline
type MetricsCollector struct {
	mu            sync.Mutex
	metrics       models.ScraperMetrics
	totalDuration time.Duration
}

// NewMetricsCollector crea un collector vacío
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: models.ScraperMetrics{
			Source:         "jorudan",
			FailuresByKind: make(map[string]int),
		},
	}
}

// Record registra una corrida del pipeline (éxito o falla clasificada)
func (mc *MetricsCollector) Record(result models.ScrapeResult) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	m := &mc.metrics
	m.TotalRuns++
	mc.totalDuration += result.Duration
	m.AverageDurationMs = float64(mc.totalDuration.Milliseconds()) / float64(m.TotalRuns)

	lastRun := result.StartedAt
	m.LastRun = &lastRun

	if result.ErrorKind == "" {
		m.SuccessfulRuns++
		m.CandidatesServed += result.Candidates
	} else {
		m.FailedRuns++
		m.FailuresByKind[result.ErrorKind]++
		m.LastError = result.ErrorMsg
		m.LastErrorKind = result.ErrorKind
	}
	m.SuccessRate = float64(m.SuccessfulRuns) / float64(m.TotalRuns) * 100

	// Reflejar el estado en el dashboard de debugging
	status := "completed"
	if result.ErrorKind != "" {
		status = "failed"
	}
	debug.UpdateScrapingStatus(status, result.StartedAt, m.SuccessfulRuns, m.FailedRuns)
}

// Snapshot retorna una copia consistente de las métricas actuales
func (mc *MetricsCollector) Snapshot() models.ScraperMetrics {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	snapshot := mc.metrics
	snapshot.FailuresByKind = make(map[string]int, len(mc.metrics.FailuresByKind))
	for kind, count := range mc.metrics.FailuresByKind {
		snapshot.FailuresByKind[kind] = count
	}
	if mc.metrics.LastRun != nil {
		lastRun := *mc.metrics.LastRun
		snapshot.LastRun = &lastRun
	}
	return snapshot
}

// MetricsHandler expone las métricas del scraper
type MetricsHandler struct {
	collector *MetricsCollector
}

// NewMetricsHandler crea un nuevo handler de métricas
func NewMetricsHandler(collector *MetricsCollector) *MetricsHandler {
	return &MetricsHandler{collector: collector}
}

// GetScraperMetrics retorna las métricas acumuladas del scraping
// GET /api/stats/scraper
func (h *MetricsHandler) GetScraperMetrics(c *fiber.Ctx) error {
	return c.JSON(h.collector.Snapshot())
}
