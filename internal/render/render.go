package render

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/yourorg/norikae/internal/config"
	"github.com/yourorg/norikae/internal/models"
)

// ============================================================================
// RENDERER - SALIDA JSON O HTML DE LOS CANDIDATOS
// ============================================================================
// El renderer NUNCA falla: resúmenes que no matchean los patrones de horario
// producen campos de display vacíos, no errores. Todo texto interpolado en el
// HTML se escapa (estaciones y líneas son contenido de terceros).

const (
	// FormatJSON produce {"transfers": [[summary, route], ...]}
	FormatJSON = "json"
	// FormatHTML produce un documento autocontenido con una card por candidato
	FormatHTML = "html"
)

// Renderer serializa candidatos al formato del endpoint
type Renderer struct {
	lineMarker string

	// "07:40発 → 08:23着" o "07:40～08:23"
	departArriveRe *regexp.Regexp
	rangeRe        *regexp.Regexp
	// re-separar "<horario>(<duración>)(<transbordos>)"
	summaryRe *regexp.Regexp
}

// NewRenderer construye el renderer con el marcador de líneas del sitio
func NewRenderer(cfg config.Config) *Renderer {
	return &Renderer{
		lineMarker:     cfg.LineMarker,
		departArriveRe: regexp.MustCompile(`(\d{1,2}:\d{2})発.*?(\d{1,2}:\d{2})着`),
		rangeRe:        regexp.MustCompile(`(\d{1,2}:\d{2})～(\d{1,2}:\d{2})`),
		summaryRe:      regexp.MustCompile(`^(.*?)\((.*?)\)\((.*?)\)$`),
	}
}

// ContentType retorna el Content-Type correspondiente al formato
func ContentType(format string) string {
	if format == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "application/json"
}

// Render serializa los candidatos en el formato pedido, orden preservado
func (r *Renderer) Render(candidates []models.RouteCandidate, format string) string {
	if format == FormatHTML {
		return r.renderHTML(candidates)
	}
	return r.renderJSON(candidates)
}

func (r *Renderer) renderJSON(candidates []models.RouteCandidate) string {
	if candidates == nil {
		candidates = []models.RouteCandidate{}
	}
	data, err := json.Marshal(models.TransitResponse{Transfers: candidates})
	if err != nil {
		// Marshal de strings no puede fallar; igual no propagamos
		return `{"transfers":[]}`
	}
	return string(data)
}

// renderHTML arma el documento completo: header + una card por candidato con
// horario de salida/llegada, duración, transbordos y la timeline de la ruta
func (r *Renderer) renderHTML(candidates []models.RouteCandidate) string {
	var b strings.Builder
	b.WriteString(htmlHead)
	b.WriteString(`<header class="site-header"><h1>乗り換え案内</h1><p>六本木一丁目 → つつじヶ丘</p></header>` + "\n")
	b.WriteString(`<main class="cards">` + "\n")

	for _, candidate := range candidates {
		r.writeCard(&b, candidate)
	}

	b.WriteString("</main>\n</body>\n</html>\n")
	return b.String()
}

func (r *Renderer) writeCard(b *strings.Builder, candidate models.RouteCandidate) {
	depart, arrive := r.parseTimes(candidate.Summary)
	duration, transfers := r.parseSummaryFields(candidate.Summary)

	b.WriteString(`<section class="card">` + "\n")
	b.WriteString(`<div class="times"><span class="depart">` + Escape(depart) +
		`</span><span class="arrow">→</span><span class="arrive">` + Escape(arrive) + `</span></div>` + "\n")
	b.WriteString(`<div class="meta"><span class="duration">` + Escape(duration) +
		`</span><span class="transfers">` + Escape(transfers) + `</span></div>` + "\n")

	b.WriteString(`<ol class="timeline">` + "\n")
	lines := strings.Split(candidate.Route, "\n")
	stations := make([]int, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) != "" && !strings.HasPrefix(line, r.lineMarker) {
			stations = append(stations, i)
		}
	}
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, r.lineMarker) {
			label := strings.TrimPrefix(line, r.lineMarker)
			b.WriteString(`<li class="line">` + Escape(label) + `</li>` + "\n")
			continue
		}
		class := "station"
		if len(stations) > 0 && (i == stations[0] || i == stations[len(stations)-1]) {
			class = "station endpoint"
		}
		b.WriteString(`<li class="` + class + `">` + Escape(line) + `</li>` + "\n")
	}
	b.WriteString("</ol>\n</section>\n")
}

// parseTimes re-deriva salida/llegada desde el summary; sin match → vacío
func (r *Renderer) parseTimes(summary string) (depart, arrive string) {
	if m := r.departArriveRe.FindStringSubmatch(summary); m != nil {
		return m[1], m[2]
	}
	if m := r.rangeRe.FindStringSubmatch(summary); m != nil {
		return m[1], m[2]
	}
	return "", ""
}

// parseSummaryFields separa duración y transbordos del formato a(b)(c)
func (r *Renderer) parseSummaryFields(summary string) (duration, transfers string) {
	if m := r.summaryRe.FindStringSubmatch(summary); m != nil {
		return m[2], m[3]
	}
	return "", ""
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape escapa los 5 caracteres peligrosos antes de interpolar contenido
// de terceros en el documento
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}

const htmlHead = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>乗り換え案内</title>
<style>
body { font-family: "Hiragino Sans", "Noto Sans JP", sans-serif; background: #f2f4f7; margin: 0; }
.site-header { background: #2c5f2d; color: #fff; padding: 16px 24px; }
.site-header h1 { margin: 0; font-size: 1.3rem; }
.site-header p { margin: 4px 0 0; opacity: .8; }
.cards { max-width: 640px; margin: 24px auto; padding: 0 16px; }
.card { background: #fff; border-radius: 8px; box-shadow: 0 1px 4px rgba(0,0,0,.12); padding: 16px 20px; margin-bottom: 16px; }
.times { font-size: 1.4rem; font-weight: 600; }
.times .arrow { margin: 0 8px; color: #888; }
.meta { color: #555; margin: 4px 0 12px; }
.meta span + span { margin-left: 12px; }
.timeline { list-style: none; margin: 0; padding: 0; border-left: 3px solid #2c5f2d; }
.timeline li { padding: 4px 0 4px 14px; }
.timeline .line { color: #777; font-size: .85rem; }
.timeline .station { font-weight: 500; }
.timeline .endpoint { color: #2c5f2d; font-weight: 700; }
</style>
</head>
<body>
`
