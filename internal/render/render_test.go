package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/yourorg/norikae/internal/config"
	"github.com/yourorg/norikae/internal/models"
)

func newTestRenderer() *Renderer {
	return NewRenderer(config.Load())
}

func sampleCandidate() models.RouteCandidate {
	return models.RouteCandidate{
		Summary: "07:40発→08:23着(43分)(1回)",
		Route:   "六本木一丁目\n｜東京メトロ南北線\n溜池山王\n｜東京メトロ銀座線\nつつじヶ丘",
	}
}

func TestRenderJSONShape(t *testing.T) {
	r := newTestRenderer()

	out := r.Render([]models.RouteCandidate{sampleCandidate()}, FormatJSON)

	var decoded struct {
		Transfers [][2]string `json:"transfers"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got error: %v", err)
	}
	if len(decoded.Transfers) != 1 {
		t.Fatalf("Expected 1 transfer, got %d", len(decoded.Transfers))
	}
	if decoded.Transfers[0][0] != "07:40発→08:23着(43分)(1回)" {
		t.Errorf("Unexpected summary: %q", decoded.Transfers[0][0])
	}
	if !strings.Contains(decoded.Transfers[0][1], "溜池山王") {
		t.Errorf("Unexpected route: %q", decoded.Transfers[0][1])
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	r := newTestRenderer()

	out := r.Render(nil, FormatJSON)
	if out != `{"transfers":[]}` {
		t.Errorf("Expected empty transfers array, got %q", out)
	}
}

func TestRenderHTMLStructure(t *testing.T) {
	r := newTestRenderer()

	out := r.Render([]models.RouteCandidate{sampleCandidate()}, FormatHTML)

	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Error("Expected a complete HTML document")
	}
	// Horarios re-derivados del summary
	if !strings.Contains(out, `<span class="depart">07:40</span>`) {
		t.Error("Expected departure time in card")
	}
	if !strings.Contains(out, `<span class="arrive">08:23</span>`) {
		t.Error("Expected arrival time in card")
	}
	if !strings.Contains(out, `<span class="duration">43分</span>`) {
		t.Error("Expected duration in card")
	}
	if !strings.Contains(out, `<span class="transfers">1回</span>`) {
		t.Error("Expected transfer count in card")
	}
	// Líneas de transporte vs estaciones
	if !strings.Contains(out, `<li class="line">東京メトロ南北線</li>`) {
		t.Error("Expected transit line entry without marker prefix")
	}
	if !strings.Contains(out, `<li class="station endpoint">六本木一丁目</li>`) {
		t.Error("Expected first station marked as endpoint")
	}
	if !strings.Contains(out, `<li class="station endpoint">つつじヶ丘</li>`) {
		t.Error("Expected last station marked as endpoint")
	}
	if !strings.Contains(out, `<li class="station">溜池山王</li>`) {
		t.Error("Expected intermediate station without endpoint class")
	}
}

func TestRenderHTMLTimeRangePattern(t *testing.T) {
	r := newTestRenderer()

	candidate := sampleCandidate()
	candidate.Summary = "07:40～08:23(43分)(1回)"
	out := r.Render([]models.RouteCandidate{candidate}, FormatHTML)

	if !strings.Contains(out, `<span class="depart">07:40</span>`) {
		t.Error("Expected departure time from range pattern")
	}
	if !strings.Contains(out, `<span class="arrive">08:23</span>`) {
		t.Error("Expected arrival time from range pattern")
	}
}

func TestRenderHTMLUnparseableSummary(t *testing.T) {
	r := newTestRenderer()

	// Un summary que no matchea ningún patrón produce campos vacíos, no falla
	candidate := models.RouteCandidate{Summary: "formato raro", Route: "駅"}
	out := r.Render([]models.RouteCandidate{candidate}, FormatHTML)

	if !strings.Contains(out, `<span class="depart"></span>`) {
		t.Error("Expected empty departure field")
	}
	if !strings.Contains(out, `<li class="station endpoint">駅</li>`) {
		t.Error("Expected route still rendered")
	}
}

func TestRenderHTMLEscapesContent(t *testing.T) {
	r := newTestRenderer()

	candidate := models.RouteCandidate{
		Summary: "07:40発→08:23着(43分)(1回)",
		Route:   "<script>alert('x')</script>\n｜\"línea\" & co",
	}
	out := r.Render([]models.RouteCandidate{candidate}, FormatHTML)

	if strings.Contains(out, "<script>alert") {
		t.Error("Expected script tag to be escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt;") {
		t.Error("Expected escaped station content")
	}
	if !strings.Contains(out, "&quot;línea&quot; &amp; co") {
		t.Error("Expected escaped line content")
	}
}

func TestEscape(t *testing.T) {
	got := Escape(`<a href="x">'&'</a>`)
	want := "&lt;a href=&quot;x&quot;&gt;&#39;&amp;&#39;&lt;/a&gt;"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestContentType(t *testing.T) {
	if ContentType(FormatJSON) != "application/json" {
		t.Error("Expected JSON content type")
	}
	if ContentType(FormatHTML) != "text/html; charset=utf-8" {
		t.Error("Expected HTML content type")
	}
}
