package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"condo/internal/auth"
	apperrors "condo/internal/errors"
	"condo/internal/mockapi"
	"condo/internal/model"
)

const maxBodyBytes = 1 << 20

func readBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindClient, "Corpo da requisição inválido", err)
	}
	if !json.Valid(body) {
		return nil, apperrors.New(apperrors.KindClient, "Corpo da requisição não é um JSON válido")
	}
	return body, nil
}

type loginResponse struct {
	Token     string    `json:"token"`
	User      auth.User `json:"user"`
	ExpiresAt string    `json:"expiresAt"`
}

func (s *Server) apiLogin(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&creds); err != nil {
		writeError(w, r, apperrors.Wrap(apperrors.KindClient, "Corpo da requisição inválido", err))
		return
	}
	sess, err := s.auth.Login(r.Context(), creds)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			err = apperrors.Wrap(apperrors.KindAuth, "E-mail ou senha inválidos", err)
		}
		writeError(w, r, err)
		return
	}
	auth.SetCookie(w, sess, s.opts.SecureCookies)
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     sess.Token,
		User:      sess.User,
		ExpiresAt: sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) apiLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), auth.TokenFromRequest(r)); err != nil {
		writeError(w, r, err)
		return
	}
	auth.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiMe(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	writeJSON(w, http.StatusOK, sess.User)
}

func (s *Server) apiDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.api.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) apiReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.api.Report(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) apiMockConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.api.Config())
}

func (s *Server) apiMockConfigUpdate(w http.ResponseWriter, r *http.Request) {
	var patch mockapi.ConfigPatch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&patch); err != nil {
		writeError(w, r, apperrors.Wrap(apperrors.KindClient, "Corpo da requisição inválido", err))
		return
	}
	cfg, err := s.api.UpdateConfig(patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) apiMockConfigReset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.api.ResetConfig())
}

// resource resolves {resource} and checks the session may use it with the
// request's method.
func (s *Server) resource(w http.ResponseWriter, r *http.Request) (model.Resource, bool) {
	res, err := model.ParseResource(r.PathValue("resource"))
	if err != nil {
		writeError(w, r, apperrors.Wrap(apperrors.KindNotFound, "Recurso não encontrado", err))
		return "", false
	}
	sess, _ := auth.FromContext(r.Context())
	if staffOnly(res, r.Method) && !isStaff(sess.User) {
		writeError(w, r, apperrors.New(apperrors.KindForbidden, "Você não tem permissão para acessar este recurso"))
		return "", false
	}
	return res, true
}

func isStaff(u auth.User) bool {
	return u.HasRole(model.PerfilAdmin, model.PerfilSindico)
}

// staffOnly reports whether method on res needs staff. Residents read
// everything but accounts, and may open and edit tickets and bookings.
// Deleting those and every write elsewhere is left to staff.
func staffOnly(res model.Resource, method string) bool {
	switch {
	case res == model.Usuarios:
		return true
	case method == http.MethodGet:
		return false
	case res == model.Chamados, res == model.Reservas:
		return method == http.MethodDelete
	default:
		return true
	}
}

// statusAllowed rejects bodies from residents that set the status of a
// ticket or booking. New records start in their default status.
func (s *Server) statusAllowed(w http.ResponseWriter, r *http.Request, res model.Resource, body json.RawMessage) bool {
	if res != model.Chamados && res != model.Reservas {
		return true
	}
	if sess, _ := auth.FromContext(r.Context()); isStaff(sess.User) {
		return true
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return true
	}
	if _, ok := fields["status"]; !ok {
		return true
	}
	writeError(w, r, apperrors.New(apperrors.KindForbidden, "Apenas o síndico pode alterar o status"))
	return false
}

func (s *Server) apiList(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resource(w, r)
	if !ok {
		return
	}
	if h, typed := s.lists[res]; typed && r.URL.RawQuery != "" {
		h.serveAPI(s, w, r)
		return
	}
	items, err := s.api.List(r.Context(), res)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) apiGet(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resource(w, r)
	if !ok {
		return
	}
	item, err := s.api.Get(r.Context(), res, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) apiCreate(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resource(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !s.statusAllowed(w, r, res, body) {
		return
	}
	item, err := s.api.Create(r.Context(), res, body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) apiUpdate(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resource(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !s.statusAllowed(w, r, res, body) {
		return
	}
	item, err := s.api.Update(r.Context(), res, r.PathValue("id"), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) apiDelete(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resource(w, r)
	if !ok {
		return
	}
	if err := s.api.Delete(r.Context(), res, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiComment(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	var in struct {
		Texto string `json:"texto"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeError(w, r, apperrors.Wrap(apperrors.KindClient, "Corpo da requisição inválido", err))
		return
	}
	c, err := s.api.AddComentario(r.Context(), r.PathValue("id"), sess.User.ID, in.Texto)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
