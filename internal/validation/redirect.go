package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// RedirectError representa un error de validación de un destino de redirect
type RedirectError struct {
	Value   string
	Message string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect inválido: %s (valor: %q)", e.Message, e.Value)
}

// ValidateRedirectPath valida un path de redirect extraído de contenido de
// terceros antes de unirlo al origen confiable.
// Rechaza fragmentos absolutos o protocol-relative: un path controlado por
// la página no puede sacar al fetcher del dominio de Jorudan (anti-SSRF).
func ValidateRedirectPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return &RedirectError{
			Value:   path,
			Message: "path vacío",
		}
	}

	if strings.HasPrefix(path, "//") {
		return &RedirectError{
			Value:   path,
			Message: "URL protocol-relative no permitida",
		}
	}

	if strings.Contains(path, "://") {
		return &RedirectError{
			Value:   path,
			Message: "URL absoluta no permitida",
		}
	}

	return nil
}

// ValidateLocationOrigin valida un header Location absoluto contra el origen
// confiable: scheme y host deben coincidir EXACTAMENTE
func ValidateLocationOrigin(location, trustedOrigin string) error {
	loc, err := url.Parse(location)
	if err != nil {
		return &RedirectError{
			Value:   location,
			Message: "Location no parseable",
		}
	}

	trusted, err := url.Parse(trustedOrigin)
	if err != nil {
		return &RedirectError{
			Value:   trustedOrigin,
			Message: "origen confiable no parseable",
		}
	}

	if loc.Scheme != trusted.Scheme || loc.Host != trusted.Host {
		return &RedirectError{
			Value:   location,
			Message: fmt.Sprintf("origen %s://%s fuera del dominio confiable", loc.Scheme, loc.Host),
		}
	}

	return nil
}

// IsAbsoluteURL reporta si el valor es una URL absoluta (con esquema)
func IsAbsoluteURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

// JoinOrigin une un path relativo validado al origen confiable
func JoinOrigin(trustedOrigin, path string) string {
	origin := strings.TrimRight(trustedOrigin, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return origin + path
}
