package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yourorg/norikae/internal/config"
	"github.com/yourorg/norikae/internal/jorudan"
	"github.com/yourorg/norikae/internal/models"
	"github.com/yourorg/norikae/internal/render"
)

func main() {
	_ = godotenv.Load()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("==== Norikae CLI ====")
		fmt.Println("1) Health check API")
		fmt.Println("2) Fetch transfers (JSON)")
		fmt.Println("3) Fetch transfers (HTML)")
		fmt.Println("4) Show config")
		fmt.Println("5) Exit")
		fmt.Print("Select option: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)
		switch choice {
		case "1":
			doHealthCheck()
		case "2":
			doFetch(render.FormatJSON)
		case "3":
			doFetch(render.FormatHTML)
		case "4":
			doShowConfig()
		case "5":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Invalid option")
		}
		fmt.Println()
	}
}

func doHealthCheck() {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://127.0.0.1:8080"
	}
	url := strings.TrimRight(base, "/") + "/api/status"
	resp, err := http.Get(url)
	if err != nil {
		fmt.Println("Health: ERROR:", err)
		return
	}
	defer resp.Body.Close()
	fmt.Println("Health status:", resp.Status)
}

// doFetch corre el pipeline completo contra Jorudan sin pasar por el servidor
func doFetch(format string) {
	cfg := config.Load()
	fetcher := jorudan.NewFetcher(cfg)
	extractor := jorudan.NewExtractor(cfg)
	renderer := render.NewRenderer(cfg)

	page, err := fetcher.FetchPage(context.Background())
	if err != nil {
		fmt.Printf("Fetch: ERROR (%s): %v\n", jorudan.KindOf(err), err)
		return
	}

	segments := strings.Split(page, cfg.SectionMarker)
	if len(segments) <= cfg.SegmentIndex {
		fmt.Println("Fetch: ERROR: estructura de página inesperada")
		return
	}

	blocks := extractor.SplitCandidates(segments[cfg.SegmentIndex])
	if len(blocks) > cfg.MaxCandidates {
		blocks = blocks[:cfg.MaxCandidates]
	}

	var candidates []models.RouteCandidate
	for _, block := range blocks {
		cand := models.RouteCandidate{
			Summary: extractor.ExtractSummary(block),
			Route:   extractor.ExtractRoute(block),
		}
		if cand.IsMalformed() {
			continue
		}
		candidates = append(candidates, cand)
	}

	if len(candidates) == 0 {
		fmt.Println("Fetch: sin candidatos válidos")
		return
	}

	fmt.Println(renderer.Render(candidates, format))
}

func doShowConfig() {
	cfg := config.Load()
	fmt.Println("Query URL:      ", cfg.QueryURL)
	fmt.Println("Trusted origin: ", cfg.TrustedOrigin)
	fmt.Println("Step timeout:   ", cfg.StepTimeout)
	fmt.Println("Max candidates: ", cfg.MaxCandidates)
	fmt.Println("Output format:  ", cfg.OutputFormat)
	fmt.Println("Result TTL:     ", cfg.ResultTTL)
	fmt.Println("Browser fallback:", cfg.BrowserFallback)
}
