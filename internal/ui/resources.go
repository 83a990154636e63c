package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"condo/internal/listing"
	"condo/internal/mockapi"
	"condo/internal/model"
	"condo/internal/table"
)

// NewResourceBrowser builds the browser for one collection, reading through
// svc so that configured latency and injected failures show up in the
// terminal too.
func NewResourceBrowser(svc *mockapi.Service, r model.Resource, opts Options) (tea.Model, error) {
	switch r {
	case model.Chamados:
		return NewBrowser("Chamados", listing.Chamados(), loader[model.Chamado](svc, r), chamadoDetail, opts), nil
	case model.Gastos:
		return NewBrowser("Gastos", listing.Gastos(), loader[model.Gasto](svc, r), gastoDetail, opts), nil
	case model.Moradores:
		return NewBrowser("Moradores", listing.Moradores(), loader[model.Morador](svc, r), nil, opts), nil
	case model.Usuarios:
		load := func(ctx context.Context) ([]model.Usuario, error) {
			users, err := mockapi.ListAs[model.Usuario](ctx, svc, r)
			for i := range users {
				users[i] = users[i].Public()
			}
			return users, err
		}
		return NewBrowser("Usuários", listing.Usuarios(), load, nil, opts), nil
	case model.Reservas:
		return NewBrowser("Reservas", listing.Reservas(), loader[model.Reserva](svc, r), nil, opts), nil
	case model.Avisos:
		return NewBrowser("Avisos", listing.Avisos(), loader[model.Aviso](svc, r), avisoDetail, opts), nil
	}
	return nil, fmt.Errorf("unknown resource %q", r)
}

func loader[T any](svc *mockapi.Service, r model.Resource) Loader[T] {
	return func(ctx context.Context) ([]T, error) {
		return mockapi.ListAs[T](ctx, svc, r)
	}
}

func chamadoDetail(c model.Chamado) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Titulo)
	fmt.Fprintf(&b, "- **Status:** %s\n", model.Label(model.StatusChamado, c.Status))
	fmt.Fprintf(&b, "- **Prioridade:** %s\n", model.Label(model.Prioridades, c.Prioridade))
	fmt.Fprintf(&b, "- **Categoria:** %s\n", model.Label(model.CategoriasChamado, c.Categoria))
	if c.Local != "" {
		fmt.Fprintf(&b, "- **Local:** %s\n", c.Local)
	}
	fmt.Fprintf(&b, "- **Aberto em:** %s\n", listing.DateTime(c.CreatedAt))
	if c.DataLimite != nil {
		fmt.Fprintf(&b, "- **Data limite:** %s\n", listing.Date(*c.DataLimite))
	}
	fmt.Fprintf(&b, "\n%s\n", c.Descricao)

	if len(c.Comentarios) > 0 {
		comments := append([]model.Comentario(nil), c.Comentarios...)
		sort.SliceStable(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
		b.WriteString("\n## Comentários\n\n")
		for _, cm := range comments {
			fmt.Fprintf(&b, "- %s: %s\n", listing.DateTime(cm.CreatedAt), cm.Texto)
		}
	}
	return b.String()
}

func gastoDetail(g model.Gasto) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", g.Descricao)
	fmt.Fprintf(&b, "- **Valor:** %s\n", listing.Money(g.Valor))
	fmt.Fprintf(&b, "- **Data:** %s\n", listing.Date(g.Data))
	fmt.Fprintf(&b, "- **Categoria:** %s\n", model.Label(model.CategoriasGasto, g.Categoria))
	if g.Tipo != "" {
		fmt.Fprintf(&b, "- **Tipo:** %s\n", model.Label(model.TiposGasto, g.Tipo))
	}
	if g.Comprovante != "" {
		fmt.Fprintf(&b, "- **Comprovante:** %s\n", g.Comprovante)
	}
	if g.Observacao != "" {
		fmt.Fprintf(&b, "\n%s\n", g.Observacao)
	}
	return b.String()
}

func avisoDetail(a model.Aviso) string {
	date := a.PublicadoEm
	if date.IsZero() {
		date = a.CreatedAt
	}
	return fmt.Sprintf("# %s\n\n_%s_ %s\n\n%s\n", a.Titulo, listing.Date(date), table.Display(a.Autor), a.Conteudo)
}
