package jorudan

import (
	"errors"
	"fmt"
)

// ============================================================================
// TAXONOMÍA DE ERRORES DEL PIPELINE
// ============================================================================
// Conjunto cerrado de tipos de falla. Cada uno se captura UNA sola vez en el
// dispatcher: se loguea con detalle completo (kind + mensaje) y hacia afuera
// siempre se responde el mismo 500 genérico.

// ErrorKind clasifica una falla del pipeline fetch→extract
type ErrorKind string

const (
	KindTimeout            ErrorKind = "timeout"
	KindHTTP               ErrorKind = "http_status"
	KindUnexpectedResponse ErrorKind = "unexpected_response"
	KindMissingData        ErrorKind = "missing_data"
	KindRedirectResolution ErrorKind = "redirect_resolution"
	KindSsrfRejected       ErrorKind = "ssrf_rejected"
	KindStructure          ErrorKind = "structure"
	KindNoRoutes           ErrorKind = "no_routes"
	KindInternal           ErrorKind = "internal"
)

// FetchError representa una falla clasificada del pipeline
type FetchError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// newError construye un FetchError sin causa subyacente
func newError(kind ErrorKind, format string, args ...interface{}) *FetchError {
	return &FetchError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapError construye un FetchError envolviendo la causa
func wrapError(kind ErrorKind, err error, format string, args ...interface{}) *FetchError {
	return &FetchError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf clasifica cualquier error del pipeline; errores desconocidos
// se reportan como "internal"
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}
