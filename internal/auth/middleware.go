package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "condo/internal/errors"
)

// CookieName is the session cookie.
const CookieName = "auth-token"

// DefaultPublicPaths never require a session. Entries match exactly or as a
// path prefix followed by "/".
var DefaultPublicPaths = []string{"/login", "/acesso-negado", "/static", "/healthz", "/api/login"}

type contextKey struct{}

// WithSession stores sess in ctx.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session stored by the middleware.
func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(Session)
	return sess, ok
}

// TokenFromRequest reads the session cookie, falling back to a bearer token.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// SetCookie writes the session cookie.
func SetCookie(w http.ResponseWriter, sess Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// IsPublic reports whether path is served without a session.
func IsPublic(path string, public []string) bool {
	for _, p := range public {
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

func isAPI(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

// Middleware requires a live session outside the public paths. Pages
// redirect to /login?from=<path>; API routes answer 401 JSON.
func (a *Authenticator) Middleware(public []string) func(http.Handler) http.Handler {
	if public == nil {
		public = DefaultPublicPaths
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := a.CurrentSession(r.Context(), TokenFromRequest(r))
			if ok {
				r = r.WithContext(WithSession(r.Context(), sess))
			}
			if ok || IsPublic(r.URL.Path, public) {
				next.ServeHTTP(w, r)
				return
			}

			if isAPI(r.URL.Path) {
				writeError(w, apperrors.New(apperrors.KindAuth, "Sessão expirada ou inexistente"))
				return
			}
			ClearCookie(w)
			from := r.URL.Path
			if r.URL.RawQuery != "" {
				from += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, "/login?from="+url.QueryEscape(from), http.StatusFound)
		})
	}
}

// RequireRole lets through sessions whose perfil is one of roles. Others get
// /acesso-negado, or 403 JSON on API routes.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := FromContext(r.Context())
			if ok && sess.User.HasRole(roles...) {
				next.ServeHTTP(w, r)
				return
			}
			if isAPI(r.URL.Path) {
				if !ok {
					writeError(w, apperrors.New(apperrors.KindAuth, "Sessão expirada ou inexistente"))
					return
				}
				writeError(w, apperrors.New(apperrors.KindForbidden, "Você não tem permissão para acessar este recurso"))
				return
			}
			if !ok {
				http.Redirect(w, r, "/login?from="+url.QueryEscape(r.URL.Path), http.StatusFound)
				return
			}
			http.Redirect(w, r, "/acesso-negado", http.StatusFound)
		})
	}
}

func writeError(w http.ResponseWriter, err *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode())
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": err.Message,
		"kind":  err.Kind,
		"title": err.Kind.Title(),
	})
}
