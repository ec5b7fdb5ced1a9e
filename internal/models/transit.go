package models

import (
	"encoding/json"
	"strings"
	"time"
)

// RouteCandidate representa una alternativa de viaje extraída de Jorudan.
// Summary es una sola línea "<horario>(<duración>)(<transbordos>)"; Route es
// el listado multilínea de estaciones y líneas en orden de viaje.
// Inmutable una vez creado; vive solo durante un request.
type RouteCandidate struct {
	Summary string
	Route   string
}

// MarshalJSON serializa el candidato como par [summary, route], el contrato
// histórico del endpoint
func (c RouteCandidate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{c.Summary, c.Route})
}

// UnmarshalJSON reconstruye el candidato desde el par [summary, route]
func (c *RouteCandidate) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	c.Summary = pair[0]
	c.Route = pair[1]
	return nil
}

// MalformedSentinel es el summary que produce un bloque sin ninguno de los
// tres campos: indica bloque incompleto, no una ruta real
const MalformedSentinel = "()()"

// IsMalformed reporta si el candidato debe descartarse: summary centinela
// o ruta en blanco
func (c RouteCandidate) IsMalformed() bool {
	return c.Summary == MalformedSentinel || strings.TrimSpace(c.Route) == ""
}

// TransitResponse es el payload JSON del endpoint de transit
type TransitResponse struct {
	Transfers []RouteCandidate `json:"transfers"`
}

// StatusResponse es el payload del health check (nunca toca la red)
type StatusResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"` // ISO-8601
}

// ErrorResponse es la respuesta uniforme de falla: mensaje genérico sin
// detalle interno, más un id de correlación para buscar el log del operador
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// NewStatusResponse arma el payload de status con el timestamp actual
func NewStatusResponse() StatusResponse {
	return StatusResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
