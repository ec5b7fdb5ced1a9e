package jorudan

import (
	"regexp"
	"strings"

	"github.com/yourorg/norikae/internal/config"
)

// ============================================================================
// EXTRACCIÓN DE CANDIDATOS DESDE EL HTML DE JORUDAN
// ============================================================================
// Jorudan devuelve cada alternativa de viaje como texto semi-estructurado:
//
//   発着時間：07:40発→08:23着
//   所要時間：43分
//   乗換回数：1回
//   <línea en blanco>
//   六本木一丁目
//   ｜東京メトロ南北線
//   ...
//
// La sección antes de la línea en blanco es el resumen (3 campos con label y
// dos puntos full-width); la segunda sección es la ruta estación por estación.

// Extractor separa candidatos y extrae sus campos
type Extractor struct {
	timeLabel string

	timeRe     *regexp.Regexp
	durationRe *regexp.Regexp
	transferRe *regexp.Regexp

	// "｜ 　" → "｜": artefacto del markup que ensucia las líneas de transporte
	lineArtifact string
	lineMarker   string

	trailingSpaceRe *regexp.Regexp
	annotationRe    *regexp.Regexp
}

// NewExtractor construye un extractor con los patrones del sitio.
// Los labels se escapan con QuoteMeta: son datos literales compartidos por
// constantes de configuración, nunca sintaxis de patrón.
func NewExtractor(cfg config.Config) *Extractor {
	return &Extractor{
		timeLabel:  cfg.TimeLabel,
		timeRe:     labelPattern(cfg.TimeLabel),
		durationRe: labelPattern(cfg.DurationLabel),
		transferRe: labelPattern(cfg.TransferLabel),

		lineArtifact: cfg.LineMarker + " 　",
		lineMarker:   cfg.LineMarker,

		trailingSpaceRe: regexp.MustCompile(`(?m)\s+$`),
		annotationRe:    regexp.MustCompile(`(?m)\s{2,}.*$`),
	}
}

// labelPattern arma el patrón "label seguido del valor hasta fin de línea"
func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(label) + `(.*)`)
}

// SplitCandidates divide el segmento en un bloque por candidato.
// Cada bloque empieza en una ocurrencia del label de horario (el label queda
// con el bloque que introduce, no con el anterior). Fragmentos en blanco o
// sin label (preámbulo antes del primer candidato) se descartan.
func (e *Extractor) SplitCandidates(segment string) []string {
	if segment == "" {
		return nil
	}

	// Posiciones de inicio de cada bloque
	var starts []int
	offset := 0
	for {
		idx := strings.Index(segment[offset:], e.timeLabel)
		if idx < 0 {
			break
		}
		starts = append(starts, offset+idx)
		offset += idx + len(e.timeLabel)
	}
	if len(starts) == 0 {
		return nil
	}

	// Cortar incluyendo el posible preámbulo inicial y filtrar
	cuts := append([]int{0}, starts...)
	var blocks []string
	for i, start := range cuts {
		end := len(segment)
		if i+1 < len(cuts) {
			end = cuts[i+1]
		}
		piece := segment[start:end]
		if strings.TrimSpace(piece) == "" || !strings.Contains(piece, e.timeLabel) {
			continue
		}
		blocks = append(blocks, piece)
	}
	return blocks
}

// ExtractSummary extrae los 3 campos del resumen y arma "<hora>(<dur>)(<n>)".
// Un label ausente produce campo vacío, nunca error; si los 3 faltan el
// resultado es el centinela "()()" que marca bloque malformado.
func (e *Extractor) ExtractSummary(block string) string {
	info := sectionAt(block, 0)

	timeWindow := e.labelValue(e.timeRe, info)
	duration := e.labelValue(e.durationRe, info)
	transfers := e.labelValue(e.transferRe, info)

	return timeWindow + "(" + duration + ")(" + transfers + ")"
}

// ExtractRoute extrae el listado de estaciones/líneas (segunda sección) y lo
// limpia: artefacto de separador, espacios al final de línea, y anotaciones
// de tarifa pegadas tras dos o más espacios.
func (e *Extractor) ExtractRoute(block string) string {
	route := sectionAt(block, 1)
	if route == "" {
		return ""
	}

	route = strings.ReplaceAll(route, e.lineArtifact, e.lineMarker)
	route = e.trailingSpaceRe.ReplaceAllString(route, "")
	route = e.annotationRe.ReplaceAllString(route, "")

	return route
}

// labelValue busca el label en la sección y retorna el valor hasta el salto
// de línea, sin el \r de los CRLF
func (e *Extractor) labelValue(re *regexp.Regexp, section string) string {
	m := re.FindStringSubmatch(section)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], "\r", "")
}

// sectionAt divide el bloque por línea en blanco (soporta CRLF y LF) y
// retorna la sección pedida, o "" si no existe
func sectionAt(block string, index int) string {
	block = strings.TrimSpace(block)

	sections := strings.Split(block, "\r\n\r\n")
	if len(sections) <= index {
		sections = strings.Split(block, "\n\n")
	}
	if len(sections) <= index {
		return ""
	}
	return sections[index]
}
