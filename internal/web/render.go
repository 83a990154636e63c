package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"condo/internal/auth"
	apperrors "condo/internal/errors"
	"condo/internal/listing"
	"condo/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutTemplate = "templates/layout.html"

// pageData is what the layout sees; Data is the page's own model.
type pageData struct {
	Title    string
	Nav      string
	User     auth.User
	LoggedIn bool
	Staff    bool
	Admin    bool

	// Layout and Breakpoint let the viewport script tell when a resize
	// crosses into the other layout. A Pinned layout came from ?vw= and is
	// left alone by the script.
	Layout     string
	Pinned     bool
	Breakpoint int
	Data       any
}

var optionSets = map[string][]model.Option{
	"status":           model.StatusChamado,
	"prioridade":       model.Prioridades,
	"categoriaChamado": model.CategoriasChamado,
	"categoriaGasto":   model.CategoriasGasto,
	"tipo":             model.TiposGasto,
	"perfil":           model.Perfis,
	"reserva":          model.StatusReserva,
}

func (s *Server) funcs() template.FuncMap {
	return template.FuncMap{
		"money":    listing.Money,
		"date":     listing.Date,
		"datetime": listing.DateTime,
		"percent":  listing.Percent,
		"markdown": s.renderMarkdown,
		"label": func(set, value string) string {
			return model.Label(optionSets[set], value)
		},
		"options": func(set string) []model.Option { return optionSets[set] },
		"initials": func(name string) string {
			var b strings.Builder
			for _, f := range strings.Fields(name) {
				b.WriteString(strings.ToUpper(string([]rune(f)[:1])))
				if b.Len() >= 2 {
					break
				}
			}
			return b.String()
		},
	}
}

// loadTemplates parses every page together with the shared layout.
func (s *Server) loadTemplates() (map[string]*template.Template, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		if name == layoutTemplate {
			continue
		}
		t, err := template.New(path.Base(name)).Funcs(s.funcs()).ParseFS(templateFS, layoutTemplate, name)
		if err != nil {
			return nil, err
		}
		pages[path.Base(name)] = t
	}
	return pages, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name, title, nav string, data any) {
	t, ok := s.pages[name]
	if !ok {
		slog.Error("unknown template", "name", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sess, loggedIn := auth.FromContext(r.Context())
	pd := pageData{
		Title:      title,
		Nav:        nav,
		User:       sess.User,
		LoggedIn:   loggedIn,
		Staff:      sess.User.HasRole(model.PerfilAdmin, model.PerfilSindico),
		Admin:      sess.User.HasRole(model.PerfilAdmin),
		Layout:     s.layoutFor(r).String(),
		Pinned:     pinnedWidth(r) > 0,
		Breakpoint: s.opts.Breakpoint,
		Data:       data,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", pd); err != nil {
		slog.Error("failed to render page", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// errorPage is the model of error.html.
type errorPage struct {
	Title     string
	Message   string
	Fields    map[string]string
	RetryHref string
	Retryable bool
}

// renderError shows err inside the page layout with the status its kind
// maps to.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, title string, err error) {
	ae := asAppError(err)
	if ae.Kind == apperrors.KindServer {
		slog.Error("request failed", "path", r.URL.Path, "error", err)
	}
	s.render(w, r, ae.StatusCode(), "error.html", title, "", errorPage{
		Title:     ae.Kind.Title(),
		Message:   ae.Message,
		Fields:    ae.Fields,
		RetryHref: r.URL.RequestURI(),
		Retryable: ae.Kind.Retryable(),
	})
}

func asAppError(err error) *apperrors.AppError {
	if ae, ok := apperrors.As(err); ok {
		return ae
	}
	kind := apperrors.KindOf(err)
	msg := "Erro interno do servidor"
	if kind == apperrors.KindTimeout {
		msg = "Tempo esgotado"
	}
	return apperrors.Wrap(kind, msg, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// errorBody is the JSON shape of every API error.
type errorBody struct {
	Error  string            `json:"error"`
	Kind   apperrors.Kind    `json:"kind"`
	Title  string            `json:"title"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ae := asAppError(err)
	if ae.Kind == apperrors.KindServer {
		slog.Error("api request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, ae.StatusCode(), errorBody{
		Error:  ae.Message,
		Kind:   ae.Kind,
		Title:  ae.Kind.Title(),
		Fields: ae.Fields,
	})
}

// safeRedirect keeps post-login redirects on this site.
func safeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	if target == "/login" || strings.HasPrefix(target, "/login?") {
		return fallback
	}
	return target
}
