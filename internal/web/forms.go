package web

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"condo/internal/auth"
	apperrors "condo/internal/errors"
	"condo/internal/model"
	"condo/internal/validation"
)

// formPage is the model of the create forms: submitted values are echoed
// back next to their field errors.
type formPage struct {
	Values map[string]string
	Fields map[string]string
	Error  string
}

func (p formPage) Value(key string) string { return p.Values[key] }

func newForm(defaults map[string]string) formPage {
	return formPage{Values: defaults, Fields: map[string]string{}}
}

func (s *Server) handleChamadoForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "chamado_form.html", "Novo chamado", "chamados", newForm(map[string]string{
		"prioridade": "media",
		"categoria":  "manutencao",
	}))
}

func (s *Server) handleChamadoCreate(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	form, ok := s.parseForm(w, r, "Novo chamado",
		"titulo", "descricao", "prioridade", "categoria", "local", "dataLimite")
	if !ok {
		return
	}

	fields := map[string]any{
		"titulo":      form.Values["titulo"],
		"descricao":   form.Values["descricao"],
		"prioridade":  form.Values["prioridade"],
		"categoria":   form.Values["categoria"],
		"local":       form.Values["local"],
		"solicitante": sess.User.ID,
	}
	if raw := form.Values["dataLimite"]; raw != "" {
		t, err := validation.ParseDate(raw)
		if err != nil {
			form.Fields["dataLimite"] = "Data limite inválida"
			s.render(w, r, http.StatusUnprocessableEntity, "chamado_form.html", "Novo chamado", "chamados", form)
			return
		}
		fields["dataLimite"] = t.UTC().Format(time.RFC3339)
	}
	s.createFromForm(w, r, model.Chamados, fields, form, "chamado_form.html", "Novo chamado", "chamados")
}

func (s *Server) handleGastoForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "gasto_form.html", "Novo gasto", "gastos", newForm(map[string]string{
		"data":      s.opts.Now().Format("2006-01-02"),
		"categoria": "manutencao",
		"tipo":      "variavel",
	}))
}

func (s *Server) handleGastoCreate(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	form, ok := s.parseForm(w, r, "Novo gasto",
		"descricao", "valor", "data", "categoria", "tipo", "comprovante", "observacao")
	if !ok {
		return
	}

	v := validation.NewValidator()
	valor, _ := v.Float(form.Values["valor"], "valor", "Valor inválido")
	data, _ := v.Date(form.Values["data"], "data", "Data inválida")
	if err := v.Err(); err != nil {
		ae, _ := apperrors.As(err)
		form.Fields = ae.Fields
		s.render(w, r, ae.StatusCode(), "gasto_form.html", "Novo gasto", "gastos", form)
		return
	}

	fields := map[string]any{
		"descricao":   form.Values["descricao"],
		"valor":       valor,
		"data":        data.UTC().Format(time.RFC3339),
		"categoria":   form.Values["categoria"],
		"tipo":        form.Values["tipo"],
		"comprovante": form.Values["comprovante"],
		"observacao":  form.Values["observacao"],
		"responsavel": sess.User.ID,
	}
	s.createFromForm(w, r, model.Gastos, fields, form, "gasto_form.html", "Novo gasto", "gastos")
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request, title string, keys ...string) (formPage, bool) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, title, apperrors.Wrap(apperrors.KindClient, "Formulário inválido", err))
		return formPage{}, false
	}
	form := newForm(make(map[string]string, len(keys)))
	for _, k := range keys {
		form.Values[k] = strings.TrimSpace(r.PostForm.Get(k))
	}
	return form, true
}

// createFromForm stores fields and redirects to the new record, or renders
// the form again with the errors.
func (s *Server) createFromForm(w http.ResponseWriter, r *http.Request, res model.Resource, fields map[string]any, form formPage, tmpl, title, nav string) {
	body, err := json.Marshal(fields)
	if err == nil {
		var created json.RawMessage
		created, err = s.api.Create(r.Context(), res, body)
		if err == nil {
			var rec struct {
				ID string `json:"id"`
			}
			if err = json.Unmarshal(created, &rec); err == nil {
				http.Redirect(w, r, "/"+res.String()+"/"+rec.ID, http.StatusSeeOther)
				return
			}
		}
	}

	ae := asAppError(err)
	if ae.Kind == apperrors.KindValidation {
		form.Fields = ae.Fields
	}
	form.Error = ae.Message
	s.render(w, r, ae.StatusCode(), tmpl, title, nav, form)
}
