package web

import (
	"encoding/json"
	"net/http"

	"condo/internal/auth"
	apperrors "condo/internal/errors"
	"condo/internal/mockapi"
	"condo/internal/model"
)

// usuarioForm creates and edits accounts. Passwords are never echoed back.
type usuarioForm struct {
	formPage
	Action  string
	Editing bool
}

var usuarioKeys = []string{"nome", "email", "telefone", "perfil", "apartamento", "senha", "confirmar"}

func (s *Server) handleUsuarioForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "usuario_form.html", "Novo usuário", "usuarios", usuarioForm{
		formPage: newForm(map[string]string{"perfil": model.PerfilMorador}),
		Action:   "/usuarios/novo",
	})
}

func (s *Server) handleUsuarioCreate(w http.ResponseWriter, r *http.Request) {
	form, ok := s.parseForm(w, r, "Novo usuário", usuarioKeys...)
	if !ok {
		return
	}
	s.saveUsuario(w, r, usuarioForm{formPage: form, Action: "/usuarios/novo"}, "Novo usuário", "")
}

func (s *Server) handleUsuarioEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	u, err := mockapi.GetAs[model.Usuario](r.Context(), s.api, model.Usuarios, id)
	if err != nil {
		s.renderError(w, r, "Usuário", err)
		return
	}
	values := map[string]string{
		"nome":     u.Nome,
		"email":    u.Email,
		"telefone": u.Telefone,
		"perfil":   u.Perfil,
	}
	if u.Apartamento != nil {
		values["apartamento"] = *u.Apartamento
	}
	s.render(w, r, http.StatusOK, "usuario_form.html", "Editar usuário", "usuarios", usuarioForm{
		formPage: newForm(values),
		Action:   "/usuarios/" + id + "/editar",
		Editing:  true,
	})
}

func (s *Server) handleUsuarioUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	form, ok := s.parseForm(w, r, "Editar usuário", usuarioKeys...)
	if !ok {
		return
	}
	s.saveUsuario(w, r, usuarioForm{formPage: form, Action: "/usuarios/" + id + "/editar", Editing: true}, "Editar usuário", id)
}

// saveUsuario creates the account, or updates id when set, and goes back to
// the list. A blank password on edit keeps the current one.
func (s *Server) saveUsuario(w http.ResponseWriter, r *http.Request, form usuarioForm, title, id string) {
	senha, confirmar := form.Values["senha"], form.Values["confirmar"]
	delete(form.Values, "senha")
	delete(form.Values, "confirmar")
	if senha != confirmar {
		form.Fields["confirmar"] = "As senhas não conferem"
		s.render(w, r, http.StatusUnprocessableEntity, "usuario_form.html", title, "usuarios", form)
		return
	}

	fields := map[string]any{
		"nome":        form.Values["nome"],
		"email":       form.Values["email"],
		"telefone":    form.Values["telefone"],
		"perfil":      form.Values["perfil"],
		"apartamento": nil,
	}
	if apto := form.Values["apartamento"]; apto != "" && form.Values["perfil"] == model.PerfilMorador {
		fields["apartamento"] = apto
	}
	if senha != "" || id == "" {
		fields["senha"] = senha
	}

	body, err := json.Marshal(fields)
	if err == nil {
		if id == "" {
			_, err = s.api.Create(r.Context(), model.Usuarios, body)
		} else {
			_, err = s.api.Update(r.Context(), model.Usuarios, id, body)
		}
	}
	if err != nil {
		ae := asAppError(err)
		if ae.Kind == apperrors.KindValidation {
			form.Fields = ae.Fields
		}
		form.Error = ae.Message
		s.render(w, r, ae.StatusCode(), "usuario_form.html", title, "usuarios", form)
		return
	}
	http.Redirect(w, r, "/usuarios", http.StatusSeeOther)
}

func (s *Server) handleUsuarioDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if sess, _ := auth.FromContext(r.Context()); sess.User.ID == id {
		s.renderError(w, r, "Usuário", apperrors.New(apperrors.KindForbidden, "Você não pode excluir a própria conta"))
		return
	}
	if err := s.api.Delete(r.Context(), model.Usuarios, id); err != nil {
		s.renderError(w, r, "Usuário", err)
		return
	}
	http.Redirect(w, r, "/usuarios", http.StatusSeeOther)
}

func usuarioActions(u model.Usuario, current auth.User) []rowAction {
	actions := []rowAction{{Label: "Editar", Href: "/usuarios/" + u.ID + "/editar"}}
	if u.ID != current.ID {
		actions = append(actions, rowAction{
			Label:   "Excluir",
			Href:    "/usuarios/" + u.ID + "/excluir",
			Method:  http.MethodPost,
			Confirm: "Tem certeza que deseja excluir este usuário?",
		})
	}
	return actions
}
