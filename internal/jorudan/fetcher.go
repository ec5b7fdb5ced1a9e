package jorudan

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/yourorg/norikae/internal/config"
	"github.com/yourorg/norikae/internal/debug"
	"github.com/yourorg/norikae/internal/validation"
)

// ============================================================================
// FETCHER - CONVERSACIÓN HTTP CON EL BOT-GATE DE JORUDAN
// ============================================================================
// Jorudan no entrega el contenido directamente: la primera respuesta suele
// ser una página de detección de bots con un redirect client-side
// (window.location.href="...") que establece cookies de sesión. El fetcher
// reproduce la secuencia completa:
//
//   1. Request inicial (sin seguir redirects) → capturar cookie de sesión
//   2. Detectar el redirect client-side en el body
//   3. Seguir el redirect DENTRO del origen confiable, arrastrando cookies
//   4. Resolver la URL final (header Location o parámetro ?url=)
//   5. Fetch final del contenido con todas las cookies acumuladas
//
// Cada request tiene su propio timeout corto e independiente. Sin retries:
// una falla en cualquier paso aborta toda la operación.

// Fetcher obtiene la página de resultados de Jorudan
type Fetcher struct {
	cfg        config.Config
	client     *http.Client
	redirectRe *regexp.Regexp
}

// NewFetcher crea un fetcher que NUNCA sigue redirects automáticamente:
// necesitamos inspeccionar cada respuesta intermedia a mano
func NewFetcher(cfg config.Config) *Fetcher {
	return &Fetcher{
		cfg: cfg,
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		redirectRe: regexp.MustCompile(cfg.RedirectAssign),
	}
}

// SetClient inyecta un cliente HTTP alternativo (fakes en tests)
func (f *Fetcher) SetClient(client *http.Client) {
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	f.client = client
}

// session es el estado efímero de UNA recuperación de página:
// cookies acumuladas a lo largo de la conversación. Nunca se persiste.
type session struct {
	names   []string
	cookies map[string]string
}

func newSession() *session {
	return &session{cookies: make(map[string]string)}
}

// merge incorpora las cookies emitidas por una respuesta. El valor más
// reciente gana; el orden de primera aparición se preserva.
func (s *session) merge(resp *http.Response) {
	for _, c := range resp.Cookies() {
		if c.Name == "" {
			continue
		}
		if _, seen := s.cookies[c.Name]; !seen {
			s.names = append(s.names, c.Name)
		}
		s.cookies[c.Name] = c.Value
	}
}

// header arma el valor del header Cookie para el siguiente request
func (s *session) header() string {
	pairs := make([]string, 0, len(s.names))
	for _, name := range s.names {
		pairs = append(pairs, name+"="+s.cookies[name])
	}
	return strings.Join(pairs, "; ")
}

// FetchPage ejecuta la secuencia completa y retorna el HTML de resultados.
// Cualquier falla se reporta como *FetchError con su kind correspondiente.
func (f *Fetcher) FetchPage(ctx context.Context) (string, error) {
	sess := newSession()
	start := time.Now()

	// ========================================================================
	// PASO 1: Request inicial a la URL de consulta fija
	// ========================================================================
	body, _, err := f.get(ctx, f.cfg.QueryURL, sess)
	if err != nil {
		return "", err
	}
	debug.LogDebug("paso inicial completado", map[string]interface{}{
		"bytes":   len(body),
		"cookies": len(sess.names),
	})

	// ========================================================================
	// PASO 2: Detectar el redirect client-side del bot-gate
	// ========================================================================
	m := f.redirectRe.FindStringSubmatch(body)
	if m == nil {
		if strings.Contains(body, f.cfg.SectionMarker) {
			// Sin bot-gate: la primera respuesta ya es el contenido real
			log.Printf("🚆 [JORUDAN] Contenido directo sin bot-gate (%d bytes, %s)", len(body), time.Since(start))
			return body, nil
		}
		return "", newError(KindUnexpectedResponse, "sin redirect ni marcador estructural en la respuesta inicial")
	}

	// El path del redirect viene de contenido de terceros: validar que no
	// pueda escapar del origen confiable antes de usarlo
	redirectPath := m[1]
	if err := validation.ValidateRedirectPath(redirectPath); err != nil {
		return "", wrapError(KindSsrfRejected, err, "path de redirect rechazado")
	}
	redirectURL := validation.JoinOrigin(f.cfg.TrustedOrigin, redirectPath)

	// ========================================================================
	// PASO 3: Seguir el redirect arrastrando las cookies acumuladas
	// ========================================================================
	_, resp, err := f.get(ctx, redirectURL, sess)
	if err != nil {
		return "", err
	}

	// ========================================================================
	// PASO 4: Resolver la URL final del contenido
	// ========================================================================
	finalURL, err := f.resolveFinalURL(resp, redirectURL)
	if err != nil {
		return "", err
	}
	debug.LogDebug("URL final resuelta", map[string]interface{}{"url": finalURL})

	// ========================================================================
	// PASO 5: Fetch del contenido con el set completo de cookies
	// ========================================================================
	body, resp, err = f.get(ctx, finalURL, sess)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newError(KindHTTP, "status %d en el fetch de contenido", resp.StatusCode)
	}
	if !strings.Contains(body, f.cfg.SectionMarker) {
		return "", newError(KindMissingData, "contenido final sin el marcador estructural")
	}

	log.Printf("🚆 [JORUDAN] Página obtenida tras bot-gate (%d bytes, %s)", len(body), time.Since(start))
	return body, nil
}

// resolveFinalURL determina la URL del contenido después del redirect:
// preferir el header Location; si no existe, decodificar el parámetro ?url=
// embebido en la URL del paso anterior
func (f *Fetcher) resolveFinalURL(resp *http.Response, requestURL string) (string, error) {
	if location := resp.Header.Get("Location"); location != "" {
		if validation.IsAbsoluteURL(location) {
			// Location absoluto: el origen debe coincidir exactamente
			if err := validation.ValidateLocationOrigin(location, f.cfg.TrustedOrigin); err != nil {
				return "", wrapError(KindSsrfRejected, err, "header Location fuera de origen")
			}
			return location, nil
		}
		if err := validation.ValidateRedirectPath(location); err != nil {
			return "", wrapError(KindSsrfRejected, err, "header Location rechazado")
		}
		return validation.JoinOrigin(f.cfg.TrustedOrigin, location), nil
	}

	parsed, err := url.Parse(requestURL)
	if err != nil {
		return "", wrapError(KindRedirectResolution, err, "URL de redirect no parseable")
	}
	if embedded := parsed.Query().Get("url"); embedded != "" {
		if err := validation.ValidateRedirectPath(embedded); err != nil {
			return "", wrapError(KindSsrfRejected, err, "parámetro url rechazado")
		}
		return validation.JoinOrigin(f.cfg.TrustedOrigin, embedded), nil
	}

	return "", newError(KindRedirectResolution, "sin header Location ni parámetro url")
}

// get ejecuta un GET con headers tipo navegador, cookies de la sesión y
// timeout propio. Incorpora a la sesión las cookies de la respuesta.
func (f *Fetcher) get(ctx context.Context, target string, sess *session) (string, *http.Response, error) {
	stepCtx, cancel := context.WithTimeout(ctx, f.cfg.StepTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(stepCtx, http.MethodGet, target, nil)
	if err != nil {
		return "", nil, wrapError(KindHTTP, err, "request inválido para %s", target)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", f.cfg.Accept)
	req.Header.Set("Referer", f.cfg.Referer)
	if cookie := sess.header(); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", nil, wrapError(KindTimeout, err, "timeout en request a %s", target)
		}
		return "", nil, wrapError(KindHTTP, err, "request falló: %s", target)
	}
	defer resp.Body.Close()

	sess.merge(resp)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", nil, wrapError(KindTimeout, err, "timeout leyendo body de %s", target)
		}
		return "", nil, wrapError(KindHTTP, err, "error leyendo body de %s", target)
	}

	return string(raw), resp, nil
}

// isTimeout distingue deadlines vencidos de otras fallas de transporte
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
