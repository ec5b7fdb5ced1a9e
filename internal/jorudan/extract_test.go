package jorudan

import (
	"strings"
	"testing"

	"github.com/yourorg/norikae/internal/config"
)

const sampleBlock = "発着時間：07:40発→08:23着\n" +
	"所要時間：43分\n" +
	"乗換回数：1回\n" +
	"\n" +
	"六本木一丁目\n" +
	"｜ 　東京メトロ南北線\n" +
	"溜池山王\n" +
	"｜ 　東京メトロ銀座線\n" +
	"つつじヶ丘\n"

func newTestExtractor() *Extractor {
	return NewExtractor(config.Load())
}

func TestSplitCandidatesSingleBlock(t *testing.T) {
	e := newTestExtractor()

	blocks := e.SplitCandidates(sampleBlock)
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	if !strings.Contains(blocks[0], "発着時間：") {
		t.Error("Expected block to contain the time label")
	}
}

func TestSplitCandidatesMultipleBlocks(t *testing.T) {
	e := newTestExtractor()

	second := strings.Replace(sampleBlock, "07:40発→08:23着", "08:00発→08:44着", 1)
	third := strings.Replace(sampleBlock, "07:40発→08:23着", "08:20発→09:05着", 1)
	segment := sampleBlock + second + third

	blocks := e.SplitCandidates(segment)
	if len(blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(blocks))
	}

	// Cada bloque conserva SU label de horario, en orden
	if !strings.Contains(blocks[0], "07:40発") {
		t.Error("Expected first block to keep first departure")
	}
	if !strings.Contains(blocks[1], "08:00発") {
		t.Error("Expected second block to keep second departure")
	}
	if !strings.Contains(blocks[2], "08:20発") {
		t.Error("Expected third block to keep third departure")
	}
}

func TestSplitCandidatesDiscardsPreamble(t *testing.T) {
	e := newTestExtractor()

	segment := "texto de navegación sin labels\n\n" + sampleBlock
	blocks := e.SplitCandidates(segment)
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block (preamble discarded), got %d", len(blocks))
	}
	if strings.Contains(blocks[0], "navegación") {
		t.Error("Expected preamble not to leak into the block")
	}
}

func TestSplitCandidatesEmptyInputs(t *testing.T) {
	e := newTestExtractor()

	if blocks := e.SplitCandidates(""); blocks != nil {
		t.Errorf("Expected nil for empty segment, got %v", blocks)
	}
	if blocks := e.SplitCandidates("texto sin ningún label"); blocks != nil {
		t.Errorf("Expected nil for unlabeled segment, got %v", blocks)
	}
}

func TestExtractSummary(t *testing.T) {
	e := newTestExtractor()

	summary := e.ExtractSummary(sampleBlock)
	expected := "07:40発→08:23着(43分)(1回)"
	if summary != expected {
		t.Errorf("Expected %q, got %q", expected, summary)
	}
}

func TestExtractSummaryMissingLabels(t *testing.T) {
	e := newTestExtractor()

	// Un label ausente produce campo vacío, nunca error
	block := "発着時間：07:40発→08:23着\n乗換回数：1回\n\n六本木一丁目\n"
	summary := e.ExtractSummary(block)
	expected := "07:40発→08:23着()(1回)"
	if summary != expected {
		t.Errorf("Expected %q, got %q", expected, summary)
	}

	// Sin ningún label: el centinela de bloque malformado
	summary = e.ExtractSummary("texto cualquiera")
	if summary != "()()" {
		t.Errorf("Expected sentinel \"()()\", got %q", summary)
	}
}

func TestExtractSummaryCRLF(t *testing.T) {
	e := newTestExtractor()

	block := "発着時間：07:40発→08:23着\r\n所要時間：43分\r\n乗換回数：1回\r\n\r\n六本木一丁目\r\n"
	summary := e.ExtractSummary(block)
	expected := "07:40発→08:23着(43分)(1回)"
	if summary != expected {
		t.Errorf("Expected %q, got %q", expected, summary)
	}
	if strings.Contains(summary, "\r") {
		t.Error("Expected no carriage returns in summary")
	}
}

func TestExtractRouteCleansArtifact(t *testing.T) {
	e := newTestExtractor()

	route := e.ExtractRoute(sampleBlock)
	if strings.Contains(route, "｜ 　") {
		t.Error("Expected separator artifact to be removed")
	}
	if !strings.Contains(route, "｜東京メトロ南北線") {
		t.Errorf("Expected clean line marker, got %q", route)
	}

	lines := strings.Split(route, "\n")
	if lines[0] != "六本木一丁目" {
		t.Errorf("Expected first station, got %q", lines[0])
	}
	if lines[len(lines)-1] != "つつじヶ丘" {
		t.Errorf("Expected last station, got %q", lines[len(lines)-1])
	}
}

func TestExtractRouteStripsAnnotations(t *testing.T) {
	e := newTestExtractor()

	// Anotaciones pegadas tras 2+ espacios (tarifas) y espacios finales
	block := "発着時間：07:40発→08:23着\n\n六本木一丁目   \n溜池山王  230円\nつつじヶ丘\n"
	route := e.ExtractRoute(block)

	if strings.Contains(route, "230円") {
		t.Errorf("Expected fare annotation removed, got %q", route)
	}
	lines := strings.Split(route, "\n")
	if lines[0] != "六本木一丁目" {
		t.Errorf("Expected trailing spaces stripped, got %q", lines[0])
	}
	if lines[1] != "溜池山王" {
		t.Errorf("Expected annotation stripped from station line, got %q", lines[1])
	}
}

func TestExtractRouteMissingSection(t *testing.T) {
	e := newTestExtractor()

	// Bloque sin segunda sección: ruta vacía, el handler lo descarta
	block := "発着時間：07:40発→08:23着\n所要時間：43分\n乗換回数：1回\n"
	if route := e.ExtractRoute(block); route != "" {
		t.Errorf("Expected empty route, got %q", route)
	}
}
