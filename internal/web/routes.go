package web

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"condo/internal/auth"
	"condo/internal/model"
	"condo/internal/ratelimit"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	staff := auth.RequireRole(model.PerfilAdmin, model.PerfilSindico)
	admin := auth.RequireRole(model.PerfilAdmin)
	limit := ratelimit.Middleware(ratelimit.Options{
		Store:              s.opts.LoginLimiter,
		TrustXForwardedFor: s.opts.TrustXFF,
		Methods:            []string{http.MethodPost},
		RetryAfter:         time.Second,
		Recorder:           s.opts.Metrics,
	})

	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	mux.HandleFunc("GET /healthz", s.handleHealth)

	// Pages
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.Handle("POST /login", limit(http.HandlerFunc(s.handleLogin)))
	mux.HandleFunc("GET /logout", s.handleLogout)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /acesso-negado", s.handleAccessDenied)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.Handle("GET /relatorios", staff(http.HandlerFunc(s.handleReports)))
	mux.HandleFunc("GET /perfil", s.handleProfile)
	mux.HandleFunc("POST /perfil", s.handleProfileUpdate)
	mux.Handle("GET /configuracoes", admin(http.HandlerFunc(s.handleSettings)))
	mux.Handle("POST /configuracoes", admin(http.HandlerFunc(s.handleSettingsUpdate)))

	for _, r := range model.Resources {
		h := s.lists[r]
		mux.HandleFunc("GET /"+r.String(), func(w http.ResponseWriter, req *http.Request) {
			h.servePage(s, w, req)
		})
	}
	mux.HandleFunc("GET /chamados/novo", s.handleChamadoForm)
	mux.HandleFunc("POST /chamados/novo", s.handleChamadoCreate)
	mux.HandleFunc("GET /chamados/{id}", s.handleChamado)
	mux.HandleFunc("POST /chamados/{id}/comentarios", s.handleComment)
	mux.Handle("POST /chamados/{id}/status", staff(http.HandlerFunc(s.handleChamadoStatus)))
	mux.Handle("GET /gastos/novo", staff(http.HandlerFunc(s.handleGastoForm)))
	mux.Handle("POST /gastos/novo", staff(http.HandlerFunc(s.handleGastoCreate)))
	mux.HandleFunc("GET /gastos/{id}", s.handleGasto)
	mux.Handle("POST /gastos/{id}/excluir", staff(http.HandlerFunc(s.handleGastoDelete)))
	mux.Handle("POST /reservas/{id}/status", staff(http.HandlerFunc(s.handleReservaStatus)))
	mux.HandleFunc("GET /avisos/{id}", s.handleAviso)
	mux.Handle("GET /usuarios/novo", staff(http.HandlerFunc(s.handleUsuarioForm)))
	mux.Handle("POST /usuarios/novo", staff(http.HandlerFunc(s.handleUsuarioCreate)))
	mux.Handle("GET /usuarios/{id}/editar", staff(http.HandlerFunc(s.handleUsuarioEdit)))
	mux.Handle("POST /usuarios/{id}/editar", staff(http.HandlerFunc(s.handleUsuarioUpdate)))
	mux.Handle("POST /usuarios/{id}/excluir", staff(http.HandlerFunc(s.handleUsuarioDelete)))

	// JSON API
	mux.Handle("POST /api/login", limit(http.HandlerFunc(s.apiLogin)))
	mux.HandleFunc("POST /api/logout", s.apiLogout)
	mux.HandleFunc("GET /api/me", s.apiMe)
	mux.HandleFunc("GET /api/dashboard", s.apiDashboard)
	mux.Handle("GET /api/relatorios", staff(http.HandlerFunc(s.apiReport)))
	mux.HandleFunc("GET /api/mock/config", s.apiMockConfig)
	mux.Handle("PUT /api/mock/config", admin(http.HandlerFunc(s.apiMockConfigUpdate)))
	mux.Handle("DELETE /api/mock/config", admin(http.HandlerFunc(s.apiMockConfigReset)))
	mux.HandleFunc("GET /api/{resource}", s.apiList)
	mux.HandleFunc("POST /api/{resource}", s.apiCreate)
	mux.HandleFunc("GET /api/{resource}/{id}", s.apiGet)
	mux.HandleFunc("PUT /api/{resource}/{id}", s.apiUpdate)
	mux.HandleFunc("DELETE /api/{resource}/{id}", s.apiDelete)
	mux.HandleFunc("POST /api/chamados/{id}/comentarios", s.apiComment)

	// The mux sets r.Pattern on the request it receives, so the metrics
	// middleware must sit directly on top of it.
	var h http.Handler = s.opts.Metrics.Middleware(mux)
	h = s.auth.Middleware(s.opts.PublicPaths)(h)
	return logRequests(h)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.api.Store().Count(r.Context(), model.Usuarios.String()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
