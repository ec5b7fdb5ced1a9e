package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/yourorg/norikae/internal/cache"
	"github.com/yourorg/norikae/internal/config"
	"github.com/yourorg/norikae/internal/debug"
	"github.com/yourorg/norikae/internal/handlers"
	"github.com/yourorg/norikae/internal/jorudan"
	"github.com/yourorg/norikae/internal/middleware"
	"github.com/yourorg/norikae/internal/routes"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	// ============================================================================
	// CACHÉS EN MEMORIA
	// ============================================================================
	cache.InitCaches(cfg.ResultTTL)
	defer cache.StopCaches()

	// ============================================================================
	// PIPELINE DE SCRAPING (Jorudan)
	// ============================================================================
	fetcher := jorudan.NewFetcher(cfg)

	var fallback handlers.PageFetcher
	if cfg.BrowserFallback {
		fallback = jorudan.NewBrowserFetcher(cfg)
		log.Println("🌐 Fallback con navegador habilitado (chromedp)")
	}

	collector := handlers.NewMetricsCollector()

	transitHandler := handlers.NewTransitHandler(cfg, fetcher, fallback, collector)
	statusHandler := handlers.NewStatusHandler(collector)
	metricsHandler := handlers.NewMetricsHandler(collector)

	app := fiber.New()
	app.Use(logger.New())
	app.Use(middleware.DashboardLogger())
	app.Use(middleware.RateLimiter())

	routes.Register(app, routes.Deps{
		Transit: transitHandler,
		Status:  statusHandler,
		Metrics: metricsHandler,
	})

	// Heartbeat para el dashboard de debug
	go middleware.PeriodicMetricsCollector(30 * time.Second)

	if debug.IsEnabled() {
		log.Println("🐛 Dashboard de debug habilitado en /ws/debug")
	}

	// ============================================================================
	// GRACEFUL SHUTDOWN
	// ============================================================================
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\n🛑 Señal de terminación recibida, cerrando servidor...")

		cache.StopCaches()

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️  Error cerrando servidor: %v", err)
		}

		log.Println("✅ Servidor cerrado correctamente")
		os.Exit(0)
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Servidor escuchando en :%s", port)
	log.Println("📍 Endpoints disponibles:")
	log.Println("   GET    /api/status          - Health check")
	log.Println("   GET    /api/transit         - Transbordos Jorudan (?format=json|html)")
	log.Println("   GET    /api/status/system   - Estado completo del sistema")
	log.Println("   GET    /api/stats/scraper   - Métricas de scraping")
	log.Println("   GET    /api/cache/stats     - Estadísticas de caché")
	log.Println("   DELETE /api/cache           - Limpiar caché")
	log.Println("")
	log.Println("💡 Presiona Ctrl+C para detener")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
