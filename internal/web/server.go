// Package web serves the condominium dashboard: server-rendered pages over
// the mock API plus a JSON API for the same records.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/yuin/goldmark"

	"condo/internal/auth"
	"condo/internal/listing"
	"condo/internal/metrics"
	"condo/internal/mockapi"
	"condo/internal/model"
	"condo/internal/ratelimit"
	"condo/internal/table"
)

// Options configures a Server.
type Options struct {
	Addr string
	// Breakpoint is the viewport width in CSS pixels below which lists
	// render as cards.
	Breakpoint    int
	SecureCookies bool
	PublicPaths   []string
	// LoginLimiter throttles POST /login and POST /api/login when set.
	LoginLimiter *ratelimit.Store
	TrustXFF     bool
	Metrics      *metrics.Metrics
	Now          func() time.Time
}

// Server handles the dashboard pages and the JSON API.
type Server struct {
	api   *mockapi.Service
	auth  *auth.Authenticator
	opts  Options
	pages map[string]*template.Template
	md    goldmark.Markdown
	lists map[model.Resource]resourceHandler

	handler http.Handler
	srv     *http.Server
}

// resourceHandler is the non-generic face of a resourceList.
type resourceHandler interface {
	servePage(s *Server, w http.ResponseWriter, r *http.Request)
	serveAPI(s *Server, w http.ResponseWriter, r *http.Request)
	allowed(u auth.User) bool
}

// NewServer creates a new web server
func NewServer(api *mockapi.Service, authn *auth.Authenticator, opts Options) (*Server, error) {
	if api == nil || authn == nil {
		return nil, errors.New("web: mock api and authenticator are required")
	}
	if opts.Addr == "" {
		opts.Addr = ":3000"
	}
	if opts.Breakpoint <= 0 {
		opts.Breakpoint = table.DefaultBreakpoint
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{api: api, auth: authn, opts: opts, md: newMarkdown()}
	pages, err := s.loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.pages = pages
	s.lists = s.resourceLists()
	s.handler = s.routes()
	s.srv = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		slog.Info("Starting dashboard", "addr", ln.Addr().String())
		errc <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Stopping dashboard")
	return s.srv.Shutdown(ctx)
}

func (s *Server) resourceLists() map[model.Resource]resourceHandler {
	staff := []string{model.PerfilAdmin, model.PerfilSindico}
	return map[model.Resource]resourceHandler{
		model.Chamados: &resourceList[model.Chamado]{
			resource: model.Chamados, title: "Chamados", path: "/chamados",
			table: listing.Chamados, detail: true, newPath: "/chamados/novo",
			actions: chamadoActions,
		},
		model.Gastos: &resourceList[model.Gasto]{
			resource: model.Gastos, title: "Gastos", path: "/gastos",
			table: listing.Gastos, detail: true, newPath: "/gastos/novo", newRoles: staff,
			actions: gastoActions,
		},
		model.Moradores: &resourceList[model.Morador]{
			resource: model.Moradores, title: "Moradores", path: "/moradores",
			table: listing.Moradores,
		},
		model.Usuarios: &resourceList[model.Usuario]{
			resource: model.Usuarios, title: "Usuários", path: "/usuarios",
			table: listing.Usuarios, roles: staff,
			newPath: "/usuarios/novo", actions: usuarioActions,
			clean: func(u model.Usuario) model.Usuario { return u.Public() },
		},
		model.Reservas: &resourceList[model.Reserva]{
			resource: model.Reservas, title: "Reservas", path: "/reservas",
			table: listing.Reservas, actions: reservaActions,
		},
		model.Avisos: &resourceList[model.Aviso]{
			resource: model.Avisos, title: "Avisos", path: "/avisos",
			table: listing.Avisos, detail: true,
		},
	}
}

func loadList[T any](ctx context.Context, s *Server, r model.Resource) ([]T, error) {
	return mockapi.ListAs[T](ctx, s.api, r)
}
