package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID    string `json:"id"`
	Texto string `json:"texto"`
}

func storeFactories(t *testing.T) map[string]func() Store {
	return map[string]func() Store{
		"memory": func() Store { return NewMemoryStore() },
		"sqlite": func() Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "condo.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func mustEncode(t *testing.T, id string, v any) Document {
	t.Helper()
	d, err := Encode(id, v)
	require.NoError(t, err)
	return d
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, open := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := open()
			defer s.Close()

			docs, err := s.List(ctx, "avisos")
			require.NoError(t, err)
			assert.Empty(t, docs)

			for _, id := range []string{"3", "1", "2"} {
				require.NoError(t, s.Create(ctx, "avisos", mustEncode(t, id, note{ID: id, Texto: "aviso " + id})))
			}
			require.NoError(t, s.Create(ctx, "chamados", mustEncode(t, "1", note{ID: "1", Texto: "outro"})))

			notes, err := ListAs[note](ctx, s, "avisos")
			require.NoError(t, err)
			require.Len(t, notes, 3)
			assert.Equal(t, []string{"3", "1", "2"}, []string{notes[0].ID, notes[1].ID, notes[2].ID}, "insertion order")

			n, err := s.Count(ctx, "avisos")
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			err = s.Create(ctx, "avisos", mustEncode(t, "1", note{ID: "1"}))
			assert.ErrorIs(t, err, ErrConflict)

			got, err := GetAs[note](ctx, s, "chamados", "1")
			require.NoError(t, err)
			assert.Equal(t, "outro", got.Texto)

			require.NoError(t, s.Update(ctx, "avisos", mustEncode(t, "1", note{ID: "1", Texto: "editado"})))
			got, err = GetAs[note](ctx, s, "avisos", "1")
			require.NoError(t, err)
			assert.Equal(t, "editado", got.Texto)

			notes, err = ListAs[note](ctx, s, "avisos")
			require.NoError(t, err)
			assert.Equal(t, "1", notes[1].ID, "update keeps position")

			assert.ErrorIs(t, s.Update(ctx, "avisos", mustEncode(t, "9", note{})), ErrNotFound)

			require.NoError(t, s.Delete(ctx, "avisos", "3"))
			assert.ErrorIs(t, s.Delete(ctx, "avisos", "3"), ErrNotFound)

			_, err = s.Get(ctx, "avisos", "3")
			assert.ErrorIs(t, err, ErrNotFound)

			n, err = s.Count(ctx, "avisos")
			require.NoError(t, err)
			assert.Equal(t, 2, n)
		})
	}
}

func TestStoreRejectsInvalidDocuments(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	assert.Error(t, s.Create(ctx, "", Document{ID: "1", Data: []byte(`{}`)}))
	assert.Error(t, s.Create(ctx, "avisos", Document{Data: []byte(`{}`)}))
	assert.Error(t, s.Create(ctx, "avisos", Document{ID: "1", Data: []byte(`{not json`)}))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data := []byte(`{"id":"1"}`)
	require.NoError(t, s.Create(ctx, "avisos", Document{ID: "1", Data: data}))
	data[2] = 'X'

	d, err := s.Get(ctx, "avisos", "1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(d.Data))

	d.Data[2] = 'Y'
	again, err := s.Get(ctx, "avisos", "1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(again.Data))
}

func TestMemoryStore_Closed(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Close())

	_, err := s.List(context.Background(), "avisos")
	assert.Error(t, err)
}

func TestSQLiteStore_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "condo.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, "gastos", mustEncode(t, "1", note{ID: "1", Texto: "água"})))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := GetAs[note](ctx, reopened, "gastos", "1")
	require.NoError(t, err)
	assert.Equal(t, "água", got.Texto)
}

func TestPut_CreatesThenReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, Put(ctx, s, "avisos", "1", note{ID: "1", Texto: "a"}))
	require.NoError(t, Put(ctx, s, "avisos", "1", note{ID: "1", Texto: "b"}))

	notes, err := ListAs[note](ctx, s, "avisos")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "b", notes[0].Texto)
}
