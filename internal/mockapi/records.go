package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"condo/internal/db"
	apperrors "condo/internal/errors"
	"condo/internal/model"
	"condo/internal/validation"
)

// List returns every record of r in insertion order.
func (s *Service) List(ctx context.Context, r model.Resource) ([]json.RawMessage, error) {
	if err := s.simulate(ctx, "list", r); err != nil {
		return nil, err
	}
	docs, err := s.store.List(ctx, r.String())
	if err != nil {
		return nil, storeError(r, "", err)
	}
	out := make([]json.RawMessage, 0, len(docs))
	for _, d := range docs {
		data, err := sanitize(r, d.Data)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, r model.Resource, id string) (json.RawMessage, error) {
	if err := s.simulate(ctx, "get", r); err != nil {
		return nil, err
	}
	d, err := s.store.Get(ctx, r.String(), id)
	if err != nil {
		return nil, storeError(r, id, err)
	}
	return sanitize(r, d.Data)
}

// Create validates body, assigns an id and timestamps, and stores it.
func (s *Service) Create(ctx context.Context, r model.Resource, body json.RawMessage) (json.RawMessage, error) {
	if err := s.simulate(ctx, "create", r); err != nil {
		return nil, err
	}
	fields, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	stamp := s.now().UTC().Format(time.RFC3339)
	delete(fields, "id")
	fields["createdAt"] = stamp
	fields["updatedAt"] = stamp
	fillDefaults(r, fields)

	password, _ := fields["senha"].(string)
	if err := s.check(r, fields, password, true); err != nil {
		return nil, err
	}
	if r == model.Usuarios {
		s.users.Lock()
		defer s.users.Unlock()
		if err := s.checkEmail(ctx, fields, ""); err != nil {
			return nil, err
		}
	}
	// ids are only drawn for records that will be stored
	id := s.newID()
	fields["id"] = id
	if err := s.hashPassword(r, fields, password); err != nil {
		return nil, err
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindServer, "Internal Server Error", err)
	}
	if err := s.store.Create(ctx, r.String(), db.Document{ID: id, Data: data}); err != nil {
		return nil, storeError(r, id, err)
	}
	s.metrics.RecordWrite(r.String(), "create")
	return sanitize(r, data)
}

// Update merges patch into the stored record and stamps updatedAt. The id
// and createdAt fields cannot be changed.
func (s *Service) Update(ctx context.Context, r model.Resource, id string, patch json.RawMessage) (json.RawMessage, error) {
	if err := s.simulate(ctx, "update", r); err != nil {
		return nil, err
	}
	changes, err := decodeObject(patch)
	if err != nil {
		return nil, err
	}
	if r == model.Usuarios {
		s.users.Lock()
		defer s.users.Unlock()
	}
	lock := s.recordLock(r, id)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.Get(ctx, r.String(), id)
	if err != nil {
		return nil, storeError(r, id, err)
	}
	fields, err := decodeObject(existing.Data)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindServer, "Internal Server Error", err)
	}

	password, _ := changes["senha"].(string)
	delete(changes, "senha")
	delete(changes, "id")
	delete(changes, "createdAt")
	for k, v := range changes {
		fields[k] = v
	}
	fields["updatedAt"] = s.now().UTC().Format(time.RFC3339)

	if err := s.check(r, fields, password, false); err != nil {
		return nil, err
	}
	if r == model.Usuarios {
		if err := s.checkEmail(ctx, fields, id); err != nil {
			return nil, err
		}
	}
	if err := s.hashPassword(r, fields, password); err != nil {
		return nil, err
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindServer, "Internal Server Error", err)
	}
	if err := s.store.Update(ctx, r.String(), db.Document{ID: id, Data: data}); err != nil {
		return nil, storeError(r, id, err)
	}
	s.metrics.RecordWrite(r.String(), "update")
	return sanitize(r, data)
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, r model.Resource, id string) error {
	if err := s.simulate(ctx, "delete", r); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, r.String(), id); err != nil {
		return storeError(r, id, err)
	}
	s.metrics.RecordWrite(r.String(), "delete")
	return nil
}

// AddComentario appends a comment to a ticket.
func (s *Service) AddComentario(ctx context.Context, chamadoID, usuarioID, texto string) (model.Comentario, error) {
	if err := validation.Comentario(texto); err != nil {
		return model.Comentario{}, err
	}
	if err := s.simulate(ctx, "comment", model.Chamados); err != nil {
		return model.Comentario{}, err
	}
	lock := s.recordLock(model.Chamados, chamadoID)
	lock.Lock()
	defer lock.Unlock()

	c, err := db.GetAs[model.Chamado](ctx, s.store, model.Chamados.String(), chamadoID)
	if err != nil {
		return model.Comentario{}, storeError(model.Chamados, chamadoID, err)
	}

	now := s.now().UTC()
	comment := model.Comentario{
		ID:        s.newID(),
		ChamadoID: chamadoID,
		UsuarioID: usuarioID,
		Texto:     texto,
		CreatedAt: now,
	}
	c.Comentarios = append(c.Comentarios, comment)
	c.UpdatedAt = now
	if err := db.Put(ctx, s.store, model.Chamados.String(), chamadoID, c); err != nil {
		return model.Comentario{}, storeError(model.Chamados, chamadoID, err)
	}
	s.metrics.RecordWrite(model.Chamados.String(), "comment")
	return comment, nil
}

// ListAs is List decoded into T.
func ListAs[T any](ctx context.Context, s *Service, r model.Resource) ([]T, error) {
	if err := s.simulate(ctx, "list", r); err != nil {
		return nil, err
	}
	items, err := db.ListAs[T](ctx, s.store, r.String())
	if err != nil {
		return nil, storeError(r, "", err)
	}
	return items, nil
}

// GetAs is Get decoded into T.
func GetAs[T any](ctx context.Context, s *Service, r model.Resource, id string) (T, error) {
	if err := s.simulate(ctx, "get", r); err != nil {
		var zero T
		return zero, err
	}
	item, err := db.GetAs[T](ctx, s.store, r.String(), id)
	if err != nil {
		return item, storeError(r, id, err)
	}
	return item, nil
}

// FindUserByEmail looks a user up without simulated latency or failures.
// E-mails match regardless of case.
func (s *Service) FindUserByEmail(ctx context.Context, email string) (model.Usuario, error) {
	users, err := db.ListAs[model.Usuario](ctx, s.store, model.Usuarios.String())
	if err != nil {
		return model.Usuario{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.Usuario{}, db.ErrNotFound
}

// checkEmail rejects the administrator's address and addresses already used
// by an account other than self. Callers hold s.users.
func (s *Service) checkEmail(ctx context.Context, fields map[string]any, self string) error {
	email, _ := fields["email"].(string)
	email = strings.TrimSpace(email)
	if strings.EqualFold(email, model.AdminEmail) {
		return apperrors.Validation(map[string]string{"email": "E-mail reservado"})
	}
	u, err := s.FindUserByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		return storeError(model.Usuarios, "", err)
	}
	if u.ID != self {
		return apperrors.Validation(map[string]string{"email": "E-mail já cadastrado"})
	}
	return nil
}

func fillDefaults(r model.Resource, fields map[string]any) {
	setDefault := func(key string, v any) {
		if _, ok := fields[key]; !ok {
			fields[key] = v
		}
	}
	switch r {
	case model.Chamados:
		setDefault("status", model.StatusAberto)
		setDefault("comentarios", []any{})
	case model.Reservas:
		setDefault("status", model.ReservaPendente)
	case model.Avisos:
		setDefault("publicadoEm", fields["createdAt"])
	}
}

func (s *Service) hashPassword(r model.Resource, fields map[string]any, password string) error {
	if r != model.Usuarios || password == "" {
		return nil
	}
	if s.hash == nil {
		return apperrors.New(apperrors.KindServer, "password hashing is not configured")
	}
	hashed, err := s.hash(password)
	if err != nil {
		return apperrors.Wrap(apperrors.KindServer, "Internal Server Error", err)
	}
	fields["senha"] = hashed
	return nil
}

// check decodes fields into the record type of r and validates it.
func (s *Service) check(r model.Resource, fields map[string]any, password string, create bool) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return apperrors.Wrap(apperrors.KindClient, "Corpo da requisição inválido", err)
	}
	switch r {
	case model.Chamados:
		var c model.Chamado
		if err := decodeRecord(data, &c); err != nil {
			return err
		}
		if !create {
			// Deadlines may lapse after creation.
			c.DataLimite = nil
		}
		return validation.Chamado(c, s.now())
	case model.Gastos:
		var g model.Gasto
		if err := decodeRecord(data, &g); err != nil {
			return err
		}
		return validation.Gasto(g)
	case model.Usuarios:
		var u model.Usuario
		if err := decodeRecord(data, &u); err != nil {
			return err
		}
		u.Senha = password
		return validation.Usuario(u, create)
	case model.Moradores:
		var m model.Morador
		if err := decodeRecord(data, &m); err != nil {
			return err
		}
		return validation.Morador(m)
	case model.Reservas:
		var rv model.Reserva
		if err := decodeRecord(data, &rv); err != nil {
			return err
		}
		return validation.Reserva(rv)
	case model.Avisos:
		var a model.Aviso
		if err := decodeRecord(data, &a); err != nil {
			return err
		}
		return validation.Aviso(a)
	}
	return apperrors.New(apperrors.KindNotFound, fmt.Sprintf("recurso desconhecido: %s", r))
}

func decodeRecord(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperrors.Validation(map[string]string{typeErr.Field: "Valor inválido"})
		}
		var timeErr *time.ParseError
		if errors.As(err, &timeErr) {
			return apperrors.Wrap(apperrors.KindClient, "Data inválida", err)
		}
		return apperrors.Wrap(apperrors.KindClient, "Corpo da requisição inválido", err)
	}
	return nil
}

func decodeObject(data []byte) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		if err == nil {
			err = errors.New("body is not a JSON object")
		}
		return nil, apperrors.Wrap(apperrors.KindClient, "Corpo da requisição inválido", err)
	}
	return fields, nil
}

// sanitize drops credentials from user records.
func sanitize(r model.Resource, data []byte) (json.RawMessage, error) {
	if r != model.Usuarios {
		return json.RawMessage(data), nil
	}
	fields, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	delete(fields, "senha")
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindServer, "Internal Server Error", err)
	}
	return out, nil
}

func storeError(r model.Resource, id string, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return apperrors.NotFound(r.Singular(), id)
	}
	if errors.Is(err, db.ErrConflict) {
		return apperrors.Wrap(apperrors.KindClient, fmt.Sprintf("%s %s já existe", r.Singular(), id), err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.Wrap(apperrors.KindTimeout, "Tempo esgotado", err)
	}
	return apperrors.Wrap(apperrors.KindServer, "Internal Server Error", err)
}
