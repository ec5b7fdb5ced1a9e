package jorudan

import (
	"context"
	"log"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/yourorg/norikae/internal/config"
)

// ============================================================================
// FALLBACK CON CHROME HEADLESS
// ============================================================================
// Cuando el bot-gate cambia su mecanismo y la conversación HTTP manual deja
// de funcionar, un navegador real ejecuta el redirect JavaScript por nosotros.
// Es MUCHO más pesado que el fetcher HTTP, por eso está detrás de la variable
// NORIKAE_BROWSER_FALLBACK y solo se intenta tras un UnexpectedResponse.

// BrowserFetcher obtiene la página ejecutando Chrome headless
type BrowserFetcher struct {
	cfg config.Config
}

// NewBrowserFetcher crea el fetcher de fallback
func NewBrowserFetcher(cfg config.Config) *BrowserFetcher {
	return &BrowserFetcher{cfg: cfg}
}

// FetchPage navega a la URL de consulta con Chrome headless y retorna el
// HTML renderizado. Valida el mismo marcador estructural que el fetcher HTTP.
func (b *BrowserFetcher) FetchPage(ctx context.Context) (string, error) {
	log.Printf("🌐 [JORUDAN] Fallback: iniciando Chrome headless...")

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(b.cfg.UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, b.cfg.BrowserTimeout)
	defer cancelTimeout()

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(b.cfg.QueryURL),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		if isTimeout(err) {
			return "", wrapError(KindTimeout, err, "timeout en Chrome headless")
		}
		return "", wrapError(KindHTTP, err, "error ejecutando Chrome headless")
	}

	if !strings.Contains(htmlContent, b.cfg.SectionMarker) {
		return "", newError(KindMissingData, "página renderizada sin el marcador estructural")
	}

	log.Printf("✅ [JORUDAN] Fallback headless obtuvo %d bytes", len(htmlContent))
	return htmlContent, nil
}
