package handlers

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/yourorg/norikae/internal/cache"
	"github.com/yourorg/norikae/internal/config"
	"github.com/yourorg/norikae/internal/debug"
	"github.com/yourorg/norikae/internal/jorudan"
	"github.com/yourorg/norikae/internal/models"
	"github.com/yourorg/norikae/internal/render"
)

// ============================================================================
// TRANSIT HANDLER - PIPELINE COMPLETO FETCH → EXTRACT → RENDER
// ============================================================================
// Flujo de datos en una sola dirección:
//   red → HTML crudo → segmento delimitado → bloques candidatos →
//   campos estructurados → salida renderizada
//
// TODA falla del pipeline se captura acá, UNA sola vez: se loguea con su
// clasificación completa para el operador y hacia afuera siempre sale el
// mismo 500 con mensaje genérico (nunca filtrar detalle interno al cliente).

// PageFetcher obtiene el HTML de resultados de Jorudan
type PageFetcher interface {
	FetchPage(ctx context.Context) (string, error)
}

// TransitHandler maneja el endpoint de información de transbordos
type TransitHandler struct {
	cfg       config.Config
	fetcher   PageFetcher
	fallback  PageFetcher // nil si NORIKAE_BROWSER_FALLBACK no está activo
	extractor *jorudan.Extractor
	renderer  *render.Renderer
	collector *MetricsCollector
}

// NewTransitHandler crea el handler con sus dependencias explícitas
func NewTransitHandler(cfg config.Config, fetcher, fallback PageFetcher, collector *MetricsCollector) *TransitHandler {
	return &TransitHandler{
		cfg:       cfg,
		fetcher:   fetcher,
		fallback:  fallback,
		extractor: jorudan.NewExtractor(cfg),
		renderer:  render.NewRenderer(cfg),
		collector: collector,
	}
}

// GetTransit obtiene los candidatos de transbordo y los sirve en el formato
// del variant desplegado (o el override ?format=)
// GET /api/transit
func (h *TransitHandler) GetTransit(c *fiber.Ctx) error {
	requestID := uuid.NewString()

	format := c.Query("format", h.cfg.OutputFormat)
	if format != render.FormatHTML {
		format = render.FormatJSON
	}

	// Cache de respuestas: ráfagas de clientes no deben golpear a Jorudan
	cacheKey := "transit:" + format
	if cache.TransitCache != nil {
		if cached, found := cache.TransitCache.Get(cacheKey); found {
			c.Set(fiber.HeaderContentType, render.ContentType(format))
			return c.SendString(cached.(string))
		}
	}

	start := time.Now()
	candidates, err := h.runPipeline(c.UserContext())
	if err != nil {
		return h.failure(c, requestID, start, err)
	}

	body := h.renderer.Render(candidates, format)

	if cache.TransitCache != nil && h.cfg.ResultTTL > 0 {
		cache.TransitCache.SetWithTTL(cacheKey, body, h.cfg.ResultTTL)
	}
	if h.collector != nil {
		h.collector.Record(models.ScrapeResult{
			StartedAt:  start,
			Duration:   time.Since(start),
			Candidates: len(candidates),
		})
	}
	log.Printf("✅ [TRANSIT] %d candidatos servidos en %s (request %s)", len(candidates), time.Since(start), requestID)

	c.Set(fiber.HeaderContentType, render.ContentType(format))
	return c.SendString(body)
}

// runPipeline ejecuta fetch → segmento → split → extract → filtro → cap
func (h *TransitHandler) runPipeline(ctx context.Context) ([]models.RouteCandidate, error) {
	page, err := h.fetcher.FetchPage(ctx)
	if err != nil && h.fallback != nil && jorudan.KindOf(err) == jorudan.KindUnexpectedResponse {
		// El bot-gate venció a la conversación HTTP: intentar con Chrome
		log.Printf("⚠️  [TRANSIT] fetcher HTTP vencido por el bot-gate, intentando fallback headless")
		page, err = h.fallback.FetchPage(ctx)
	}
	if err != nil {
		return nil, err
	}

	// El contenido útil es el tercer segmento delimitado por el <hr>
	segments := strings.Split(page, h.cfg.SectionMarker)
	if len(segments) <= h.cfg.SegmentIndex {
		return nil, &jorudan.FetchError{
			Kind:    jorudan.KindStructure,
			Message: "la página no se dividió en los segmentos esperados",
		}
	}
	segment := segments[h.cfg.SegmentIndex]

	blocks := h.extractor.SplitCandidates(segment)
	if len(blocks) > h.cfg.MaxCandidates {
		blocks = blocks[:h.cfg.MaxCandidates]
	}

	candidates := make([]models.RouteCandidate, 0, len(blocks))
	for _, block := range blocks {
		candidate := models.RouteCandidate{
			Summary: h.extractor.ExtractSummary(block),
			Route:   h.extractor.ExtractRoute(block),
		}
		// Bloques incompletos (centinela "()()" o ruta en blanco) se descartan
		if candidate.IsMalformed() {
			continue
		}
		candidates = append(candidates, candidate)
	}

	if len(candidates) == 0 {
		return nil, &jorudan.FetchError{
			Kind:    jorudan.KindNoRoutes,
			Message: "la extracción no produjo ningún candidato usable",
		}
	}

	return candidates, nil
}

// failure loguea la falla con todo su detalle y responde el 500 genérico
func (h *TransitHandler) failure(c *fiber.Ctx, requestID string, start time.Time, err error) error {
	kind := jorudan.KindOf(err)

	log.Printf("❌ [TRANSIT] request %s falló [%s]: %v", requestID, kind, err)
	debug.LogError("pipeline de transit falló", map[string]interface{}{
		"request_id": requestID,
		"kind":       string(kind),
		"error":      err.Error(),
	})
	if h.collector != nil {
		h.collector.Record(models.ScrapeResult{
			StartedAt: start,
			Duration:  time.Since(start),
			ErrorKind: string(kind),
			ErrorMsg:  err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Error:     "error interno obteniendo información de transbordos",
		RequestID: requestID,
	})
}
