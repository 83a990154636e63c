package mockapi

import (
	"context"
	"fmt"

	"condo/internal/db"
	"condo/internal/model"
)

// Load writes ds into store, replacing records with the same ids. Plain
// passwords are hashed with hash first.
func Load(ctx context.Context, store db.Store, ds model.Dataset, hash func(string) (string, error)) error {
	for _, u := range ds.Usuarios {
		if u.Senha != "" {
			hashed, err := hash(u.Senha)
			if err != nil {
				return fmt.Errorf("failed to hash password for %s: %w", u.Email, err)
			}
			u.Senha = hashed
		}
		if err := db.Put(ctx, store, model.Usuarios.String(), u.ID, u); err != nil {
			return err
		}
	}
	if err := putAll(ctx, store, model.Chamados, ds.Chamados, func(c model.Chamado) string { return c.ID }); err != nil {
		return err
	}
	if err := putAll(ctx, store, model.Gastos, ds.Gastos, func(g model.Gasto) string { return g.ID }); err != nil {
		return err
	}
	if err := putAll(ctx, store, model.Moradores, ds.Moradores, func(m model.Morador) string { return m.ID }); err != nil {
		return err
	}
	if err := putAll(ctx, store, model.Reservas, ds.Reservas, func(r model.Reserva) string { return r.ID }); err != nil {
		return err
	}
	return putAll(ctx, store, model.Avisos, ds.Avisos, func(a model.Aviso) string { return a.ID })
}

// LoadIfEmpty seeds store unless it already holds users.
func LoadIfEmpty(ctx context.Context, store db.Store, ds model.Dataset, hash func(string) (string, error)) (bool, error) {
	n, err := store.Count(ctx, model.Usuarios.String())
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	return true, Load(ctx, store, ds, hash)
}

func putAll[T any](ctx context.Context, store db.Store, r model.Resource, items []T, id func(T) string) error {
	for _, item := range items {
		if err := db.Put(ctx, store, r.String(), id(item), item); err != nil {
			return fmt.Errorf("failed to load %s: %w", r, err)
		}
	}
	return nil
}
