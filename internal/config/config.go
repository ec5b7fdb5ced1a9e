package config

import (
	"os"
	"strconv"
	"time"
)

// ============================================================================
// CONFIGURACIÓN GLOBAL DEL SERVICIO
// ============================================================================
// Toda la configuración se construye UNA vez al inicio del proceso y se pasa
// explícitamente a fetcher/handlers. Sin estado mutable a nivel de módulo.
//
// Los patrones del sitio origen (labels, marcador <hr>, patrón de redirect)
// viven acá detrás de una sola superficie: Jorudan puede cambiar su markup
// sin aviso y así solo hay que tocar este archivo.

// Config contiene toda la configuración del servicio
type Config struct {
	// URL de consulta fija (par origen/destino fijo: 六本木一丁目 → つつじヶ丘)
	QueryURL string
	// Origen confiable: los redirects NUNCA pueden salir de este dominio
	TrustedOrigin string

	// Headers tipo navegador para la conversación con Jorudan
	UserAgent string
	Accept    string
	Referer   string

	// Timeout independiente por cada uno de los 3 requests del fetcher
	// La suma debe quedar bien por debajo del deadline de la invocación
	StepTimeout time.Duration

	// Máximo de candidatos retornados al cliente
	MaxCandidates int

	// Índice del segmento delimitado por <hr> que contiene los candidatos
	SegmentIndex int

	// Patrones del markup de Jorudan (ver nota arriba)
	TimeLabel      string // 発着時間：
	DurationLabel  string // 所要時間：
	TransferLabel  string // 乗換回数：
	SectionMarker  string // <hr> que delimita secciones de la página
	RedirectAssign string // patrón de redirect client-side del bot-gate
	LineMarker     string // prefijo de líneas de transporte en la ruta

	// Formato de salida del variant desplegado: "json" o "html"
	OutputFormat string

	// Cache de resultados (0 = deshabilitado)
	ResultTTL time.Duration

	// Fallback con Chrome headless cuando el bot-gate vence al fetcher HTTP
	BrowserFallback bool
	BrowserTimeout  time.Duration
}

// Load construye la configuración desde variables de entorno con defaults
func Load() Config {
	cfg := Config{
		QueryURL:      getEnv("NORIKAE_QUERY_URL", defaultQueryURL),
		TrustedOrigin: getEnv("NORIKAE_ORIGIN", "https://www.jorudan.co.jp"),

		UserAgent: getEnv("NORIKAE_USER_AGENT",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		Accept:  "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		Referer: "https://www.jorudan.co.jp/norikae/",

		StepTimeout:   getEnvDuration("NORIKAE_STEP_TIMEOUT_MS", 5*time.Second),
		MaxCandidates: getEnvInt("NORIKAE_MAX_CANDIDATES", 2),
		SegmentIndex:  2,

		TimeLabel:      "発着時間：",
		DurationLabel:  "所要時間：",
		TransferLabel:  "乗換回数：",
		SectionMarker:  `<hr size="1" color="black" />`,
		RedirectAssign: `window\.location\.href="([^"]+)"`,
		LineMarker:     "｜",

		OutputFormat: getEnv("NORIKAE_FORMAT", "json"),
		ResultTTL:    getEnvDuration("NORIKAE_RESULT_TTL_MS", 60*time.Second),

		BrowserFallback: os.Getenv("NORIKAE_BROWSER_FALLBACK") == "true",
		BrowserTimeout:  getEnvDuration("NORIKAE_BROWSER_TIMEOUT_MS", 30*time.Second),
	}
	if cfg.OutputFormat != "html" {
		cfg.OutputFormat = "json"
	}
	return cfg
}

// Búsqueda fija: 六本木一丁目 → つつじヶ丘（東京）
const defaultQueryURL = "https://www.jorudan.co.jp/norikae/cgi/nori.cgi?rf=top&eok1=R-&eok2=R-&pg=0" +
	"&eki1=%E5%85%AD%E6%9C%AC%E6%9C%A8%E4%B8%80%E4%B8%81%E7%9B%AE&Cmap1=" +
	"&eki2=%E3%81%A4%E3%81%A4%E3%81%98%E3%83%B6%E4%B8%98%EF%BC%88%E6%9D%B1%E4%BA%AC%EF%BC%89" +
	"&Cway=0&Cfp=1&Czu=2&S=%E6%A4%9C%E7%B4%A2&Csg=1&type=t"

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return fallback
}
