package debug

import (
	"log"
	"os"
	"time"
)

var (
	enabled = false
)

func init() {
	// Leer la variable de entorno NORIKAE_DEBUG_DASHBOARD
	enabled = os.Getenv("NORIKAE_DEBUG_DASHBOARD") == "true"
	if enabled {
		log.Println("🐛 Debug Dashboard habilitado")
	}
}

// IsEnabled retorna si el dashboard de debugging está habilitado
func IsEnabled() bool {
	return enabled
}

// LogDebug envía un log de nivel debug al dashboard
func LogDebug(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "debug", message, metadata)
}

// LogInfo envía un log de nivel info al dashboard
func LogInfo(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "info", message, metadata)
}

// LogWarn envía un log de nivel warn al dashboard
func LogWarn(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "warn", message, metadata)
}

// LogError envía un log de nivel error al dashboard
func LogError(message string, metadata map[string]interface{}) {
	if !enabled {
		return
	}
	SendLog("backend", "error", message, metadata)
}

// UpdateScrapingStatus envía el estado del scraping de Jorudan al dashboard
func UpdateScrapingStatus(status string, lastRun time.Time, processed, errors int) {
	if !enabled {
		return
	}

	var s ScrapingStatus
	s.Jorudan.Status = status
	s.Jorudan.LastRun = lastRun.UnixMilli()
	s.Jorudan.ItemsProcessed = processed
	s.Jorudan.Errors = errors

	SendScrapingStatus(s)
}
