package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"condo/internal/auth"
	apperrors "condo/internal/errors"
	"condo/internal/listing"
	"condo/internal/mockapi"
	"condo/internal/model"
	"condo/internal/validation"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

type loginPage struct {
	From   string
	Email  string
	Error  string
	Fields map[string]string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	if _, ok := auth.FromContext(r.Context()); ok {
		http.Redirect(w, r, safeRedirect(from, "/dashboard"), http.StatusFound)
		return
	}
	s.render(w, r, http.StatusOK, "login.html", "Entrar", "", loginPage{From: from})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "login.html", "Entrar", "", loginPage{Error: "Formulário inválido"})
		return
	}
	creds := auth.Credentials{Email: r.PostForm.Get("email"), Senha: r.PostForm.Get("senha")}
	from := r.PostForm.Get("from")

	sess, err := s.auth.Login(r.Context(), creds)
	if err != nil {
		ae := asAppError(err)
		msg := ae.Message
		if errors.Is(err, auth.ErrInvalidCredentials) {
			msg = "E-mail ou senha inválidos"
		}
		s.render(w, r, ae.StatusCode(), "login.html", "Entrar", "", loginPage{
			From:   from,
			Email:  creds.Email,
			Error:  msg,
			Fields: ae.Fields,
		})
		return
	}
	auth.SetCookie(w, sess, s.opts.SecureCookies)
	http.Redirect(w, r, safeRedirect(from, "/dashboard"), http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	_ = s.auth.Logout(r.Context(), auth.TokenFromRequest(r))
	auth.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleAccessDenied(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusForbidden, "acesso_negado.html", "Acesso negado", "", nil)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.api.Dashboard(r.Context())
	if err != nil {
		s.renderError(w, r, "Dashboard", err)
		return
	}
	s.render(w, r, http.StatusOK, "dashboard.html", "Dashboard", "dashboard", d)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	rep, err := s.api.Report(r.Context())
	if err != nil {
		s.renderError(w, r, "Relatórios", err)
		return
	}
	s.render(w, r, http.StatusOK, "relatorios.html", "Relatórios", "relatorios", rep)
}

type profilePage struct {
	User   model.Usuario
	Stored bool
	Saved  bool
	Error  string
	Fields map[string]string
}

// profileFor loads the stored account behind the session. The built-in
// administrator has none.
func (s *Server) profileFor(r *http.Request) (profilePage, error) {
	sess, _ := auth.FromContext(r.Context())
	p := profilePage{User: model.Usuario{
		ID:     sess.User.ID,
		Nome:   sess.User.Nome,
		Email:  sess.User.Email,
		Perfil: sess.User.Perfil,
		Avatar: sess.User.Avatar,
	}}
	u, err := mockapi.GetAs[model.Usuario](r.Context(), s.api, model.Usuarios, sess.User.ID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return p, nil
		}
		return p, err
	}
	p.User = u.Public()
	p.Stored = true
	return p, nil
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profileFor(r)
	if err != nil {
		s.renderError(w, r, "Perfil", err)
		return
	}
	p.Saved = r.URL.Query().Get("salvo") == "1"
	s.render(w, r, http.StatusOK, "perfil.html", "Perfil", "perfil", p)
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	p, err := s.profileFor(r)
	if err != nil {
		s.renderError(w, r, "Perfil", err)
		return
	}
	if !p.Stored {
		p.Error = "O perfil do administrador não pode ser alterado"
		s.render(w, r, http.StatusForbidden, "perfil.html", "Perfil", "perfil", p)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, "Perfil", apperrors.Wrap(apperrors.KindClient, "Formulário inválido", err))
		return
	}

	patch := map[string]any{
		"nome":     strings.TrimSpace(r.PostForm.Get("nome")),
		"telefone": strings.TrimSpace(r.PostForm.Get("telefone")),
	}
	if senha := r.PostForm.Get("senha"); senha != "" {
		if senha != r.PostForm.Get("confirmar") {
			p.Fields = map[string]string{"confirmar": "As senhas não conferem"}
			s.render(w, r, http.StatusUnprocessableEntity, "perfil.html", "Perfil", "perfil", p)
			return
		}
		patch["senha"] = senha
	}
	body, _ := json.Marshal(patch)
	if _, err := s.api.Update(r.Context(), model.Usuarios, p.User.ID, body); err != nil {
		ae := asAppError(err)
		p.User.Nome = patch["nome"].(string)
		p.User.Telefone = patch["telefone"].(string)
		p.Error = ae.Message
		p.Fields = ae.Fields
		s.render(w, r, ae.StatusCode(), "perfil.html", "Perfil", "perfil", p)
		return
	}
	http.Redirect(w, r, "/perfil?salvo=1", http.StatusSeeOther)
}

type settingsPage struct {
	Config mockapi.Config
	Saved  bool
	Error  string
	Fields map[string]string
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "configuracoes.html", "Configurações", "configuracoes", settingsPage{
		Config: s.api.Config(),
		Saved:  r.URL.Query().Get("salvo") == "1",
	})
}

func (s *Server) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, "Configurações", apperrors.Wrap(apperrors.KindClient, "Formulário inválido", err))
		return
	}
	if r.PostForm.Get("acao") == "restaurar" {
		s.api.ResetConfig()
		http.Redirect(w, r, "/configuracoes?salvo=1", http.StatusSeeOther)
		return
	}

	v := validation.NewValidator()
	enabled := r.PostForm.Get("enabled") == "on"
	random := r.PostForm.Get("simulateRandomErrors") == "on"
	patch := mockapi.ConfigPatch{Enabled: &enabled, SimulateRandomErrors: &random}
	if delay, ok := v.Float(r.PostForm.Get("delay"), "delay", "Informe o atraso em milissegundos"); ok {
		ms := int64(delay)
		patch.Delay = &ms
	}
	if prob, ok := v.Float(r.PostForm.Get("errorProbability"), "errorProbability", "Informe uma probabilidade entre 0 e 1"); ok {
		patch.ErrorProbability = &prob
	}
	err := v.Err()
	if err == nil {
		_, err = s.api.UpdateConfig(patch)
	}
	if err != nil {
		ae := asAppError(err)
		s.render(w, r, ae.StatusCode(), "configuracoes.html", "Configurações", "configuracoes", settingsPage{
			Config: s.api.Config(),
			Error:  ae.Message,
			Fields: ae.Fields,
		})
		return
	}
	http.Redirect(w, r, "/configuracoes?salvo=1", http.StatusSeeOther)
}

type chamadoPage struct {
	Chamado  model.Chamado
	Overdue  bool
	Authors  map[string]string
	Texto    string
	Error    string
	Fields   map[string]string
	Statuses []model.Option
}

func (s *Server) chamadoPage(r *http.Request, id string) (chamadoPage, error) {
	c, err := mockapi.GetAs[model.Chamado](r.Context(), s.api, model.Chamados, id)
	if err != nil {
		return chamadoPage{}, err
	}
	return chamadoPage{
		Chamado:  c,
		Overdue:  listing.Overdue(c, s.opts.Now()),
		Authors:  s.authorNames(r),
		Statuses: model.StatusChamado,
	}, nil
}

// authorNames maps user ids to names for comment bylines. Failures only
// cost the names.
func (s *Server) authorNames(r *http.Request) map[string]string {
	names := map[string]string{"admin": "Administrador"}
	users, err := loadList[model.Usuario](r.Context(), s, model.Usuarios)
	if err != nil {
		return names
	}
	for _, u := range users {
		names[u.ID] = u.Nome
	}
	return names
}

func (s *Server) handleChamado(w http.ResponseWriter, r *http.Request) {
	p, err := s.chamadoPage(r, r.PathValue("id"))
	if err != nil {
		s.renderError(w, r, "Chamado", err)
		return
	}
	s.render(w, r, http.StatusOK, "chamado.html", p.Chamado.Titulo, "chamados", p)
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, _ := auth.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, "Chamado", apperrors.Wrap(apperrors.KindClient, "Formulário inválido", err))
		return
	}
	texto := strings.TrimSpace(r.PostForm.Get("texto"))

	if _, err := s.api.AddComentario(r.Context(), id, sess.User.ID, texto); err != nil {
		ae := asAppError(err)
		if ae.Kind != apperrors.KindValidation {
			s.renderError(w, r, "Chamado", err)
			return
		}
		p, perr := s.chamadoPage(r, id)
		if perr != nil {
			s.renderError(w, r, "Chamado", perr)
			return
		}
		p.Texto = texto
		p.Error = ae.Message
		p.Fields = ae.Fields
		s.render(w, r, ae.StatusCode(), "chamado.html", p.Chamado.Titulo, "chamados", p)
		return
	}
	http.Redirect(w, r, "/chamados/"+id+"#comentarios", http.StatusSeeOther)
}

func (s *Server) handleChamadoStatus(w http.ResponseWriter, r *http.Request) {
	s.updateStatus(w, r, model.Chamados, model.StatusChamado, "/chamados/"+r.PathValue("id"))
}

func (s *Server) handleReservaStatus(w http.ResponseWriter, r *http.Request) {
	s.updateStatus(w, r, model.Reservas, model.StatusReserva, "/reservas")
}

// updateStatus patches the status field of a record from a form post and
// goes back to the page the form was on.
func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request, res model.Resource, allowed []model.Option, fallback string) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, res.Singular(), apperrors.Wrap(apperrors.KindClient, "Formulário inválido", err))
		return
	}
	status := r.PostForm.Get("status")
	v := validation.NewValidator()
	v.OneOf(status, model.Values(allowed), "status", "Status inválido")
	if err := v.Err(); err != nil {
		s.renderError(w, r, res.Singular(), err)
		return
	}

	body, _ := json.Marshal(map[string]string{"status": status})
	if _, err := s.api.Update(r.Context(), res, r.PathValue("id"), body); err != nil {
		s.renderError(w, r, res.Singular(), err)
		return
	}
	http.Redirect(w, r, safeRedirect(r.PostForm.Get("voltar"), fallback), http.StatusSeeOther)
}

type gastoPage struct {
	Gasto model.Gasto
}

func (s *Server) handleGasto(w http.ResponseWriter, r *http.Request) {
	g, err := mockapi.GetAs[model.Gasto](r.Context(), s.api, model.Gastos, r.PathValue("id"))
	if err != nil {
		s.renderError(w, r, "Gasto", err)
		return
	}
	s.render(w, r, http.StatusOK, "gasto.html", g.Descricao, "gastos", gastoPage{Gasto: g})
}

func (s *Server) handleGastoDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.api.Delete(r.Context(), model.Gastos, r.PathValue("id")); err != nil {
		s.renderError(w, r, "Gasto", err)
		return
	}
	http.Redirect(w, r, "/gastos", http.StatusSeeOther)
}

type avisoPage struct {
	Aviso model.Aviso
}

func (s *Server) handleAviso(w http.ResponseWriter, r *http.Request) {
	a, err := mockapi.GetAs[model.Aviso](r.Context(), s.api, model.Avisos, r.PathValue("id"))
	if err != nil {
		s.renderError(w, r, "Aviso", err)
		return
	}
	s.render(w, r, http.StatusOK, "aviso.html", a.Titulo, "avisos", avisoPage{Aviso: a})
}

func chamadoActions(c model.Chamado, u auth.User) []rowAction {
	actions := []rowAction{{Label: "Detalhes", Href: "/chamados/" + c.ID}}
	if u.HasRole(model.PerfilAdmin, model.PerfilSindico) && c.Status != model.StatusFechado {
		actions = append(actions, rowAction{
			Label:  "Fechar",
			Href:   "/chamados/" + c.ID + "/status",
			Method: http.MethodPost,
			Fields: map[string]string{"status": model.StatusFechado, "voltar": "/chamados"},
		})
	}
	return actions
}

func gastoActions(g model.Gasto, u auth.User) []rowAction {
	actions := []rowAction{{Label: "Detalhes", Href: "/gastos/" + g.ID}}
	if u.HasRole(model.PerfilAdmin, model.PerfilSindico) {
		actions = append(actions, rowAction{
			Label:   "Excluir",
			Href:    "/gastos/" + g.ID + "/excluir",
			Method:  http.MethodPost,
			Confirm: "Excluir este gasto?",
		})
	}
	return actions
}

func reservaActions(rv model.Reserva, u auth.User) []rowAction {
	if !u.HasRole(model.PerfilAdmin, model.PerfilSindico) || rv.Status != model.ReservaPendente {
		return nil
	}
	return []rowAction{
		{Label: "Confirmar", Href: "/reservas/" + rv.ID + "/status", Method: http.MethodPost,
			Fields: map[string]string{"status": model.ReservaConfirmada}},
		{Label: "Cancelar", Href: "/reservas/" + rv.ID + "/status", Method: http.MethodPost,
			Fields: map[string]string{"status": model.ReservaCancelada}},
	}
}
