package middleware

import (
	"runtime"
	"time"

	"github.com/yourorg/norikae/internal/debug"
)

// PeriodicMetricsCollector envía métricas periódicamente al dashboard
func PeriodicMetricsCollector(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if !debug.IsEnabled() {
			continue
		}

		debug.SendLog("backend", "debug", "System heartbeat", map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
		})
	}
}
