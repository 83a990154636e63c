// Package errors classifies failures surfaced by the mock API and the web
// layer. Every kind maps to one HTTP status and a Portuguese title.
package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"
)

// Kind classifies an AppError.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindTimeout    Kind = "timeout"
	KindServer     Kind = "server"
	KindAuth       Kind = "auth"
	KindForbidden  Kind = "forbidden"
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindClient     Kind = "client"
	KindUnknown    Kind = "unknown"
)

// StatusCode returns the HTTP status for the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindNetwork:
		return http.StatusServiceUnavailable
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindClient:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Title is the heading shown to users.
func (k Kind) Title() string {
	switch k {
	case KindServer:
		return "Erro no servidor"
	case KindClient:
		return "Erro na requisição"
	case KindNetwork:
		return "Erro de conexão"
	case KindAuth:
		return "Sessão expirada"
	case KindForbidden:
		return "Acesso negado"
	case KindNotFound:
		return "Não encontrado"
	case KindValidation:
		return "Erro de validação"
	case KindTimeout:
		return "Tempo esgotado"
	default:
		return "Erro inesperado"
	}
}

// Retryable reports whether retrying the same call may succeed.
func (k Kind) Retryable() bool {
	return k == KindNetwork || k == KindTimeout || k == KindServer
}

// KindFromStatus classifies an HTTP status code.
func KindFromStatus(status int) Kind {
	switch {
	case status >= 500:
		if status == http.StatusServiceUnavailable {
			return KindNetwork
		}
		if status == http.StatusGatewayTimeout {
			return KindTimeout
		}
		return KindServer
	case status == http.StatusBadRequest:
		return KindClient
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindUnknown
	}
}

// AppError is a classified failure. Fields is set for validation errors
// and maps a field name to its message.
type AppError struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status for the error's kind.
func (e *AppError) StatusCode() int { return e.Kind.StatusCode() }

// FieldNames returns the invalid field names in sorted order.
func (e *AppError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates an AppError of the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Wrap classifies err under kind.
func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// Validation creates a validation error carrying field messages.
func Validation(fields map[string]string) *AppError {
	return &AppError{Kind: KindValidation, Message: "Dados inválidos", Fields: fields}
}

// NotFound creates a not_found error for a resource id.
func NotFound(resource, id string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s %s não encontrado", resource, id)}
}

// As extracts the AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err. Context deadlines count as timeouts and
// errors that were never classified as server errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindServer
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	return KindOf(err).StatusCode()
}

// Retry calls fn up to attempts times while it fails with a retryable kind,
// waiting delay between attempts.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		kind := KindOf(err)
		if !kind.Retryable() || i == attempts-1 {
			break
		}
		slog.Debug("retrying after error", "attempt", i+1, "max", attempts, "kind", kind, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
