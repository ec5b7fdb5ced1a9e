package models

import "time"

// ScraperMetrics representa las métricas acumuladas del scraping de Jorudan.
// Todo vive en memoria: el servicio es stateless entre reinicios.
type ScraperMetrics struct {
	Source            string         `json:"source"` // siempre "jorudan"
	TotalRuns         int            `json:"totalRuns"`
	SuccessfulRuns    int            `json:"successfulRuns"`
	FailedRuns        int            `json:"failedRuns"`
	FailuresByKind    map[string]int `json:"failuresByKind"` // kind del error → conteo
	CandidatesServed  int            `json:"candidatesServed"`
	AverageDurationMs float64        `json:"averageDurationMs"`
	LastRun           *time.Time     `json:"lastRun,omitempty"`
	LastError         string         `json:"lastError,omitempty"`
	LastErrorKind     string         `json:"lastErrorKind,omitempty"`
	SuccessRate       float64        `json:"successRate"` // porcentaje
}

// ScrapeResult representa el resultado de UNA corrida del pipeline,
// lo que el handler registra en el collector
type ScrapeResult struct {
	StartedAt  time.Time
	Duration   time.Duration
	Candidates int
	ErrorKind  string // vacío en éxito
	ErrorMsg   string
}
