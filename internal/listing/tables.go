package listing

import (
	"time"

	"condo/internal/model"
	"condo/internal/table"
)

// Chamados lists tickets, newest first.
func Chamados() *table.Table[model.Chamado] {
	return &table.Table[model.Chamado]{
		KeyExtractor: func(c model.Chamado) string { return c.ID },
		Columns: []table.Column[model.Chamado]{
			{Header: "#", Key: "id", Value: func(c model.Chamado) any { return c.ID }, Sortable: true},
			{Header: "Título", Key: "titulo", Value: func(c model.Chamado) any { return c.Titulo }, Sortable: true, Searchable: true},
			{
				Header: "Status", Key: "status",
				Value:         func(c model.Chamado) any { return c.Status },
				Cell:          func(c model.Chamado) string { return labelOf(model.StatusChamado, c.Status) },
				Sortable:      true,
				Searchable:    true,
				FilterOptions: filterOptions(model.StatusChamado),
			},
			{
				Header: "Prioridade", Key: "prioridade",
				Value:         func(c model.Chamado) any { return c.Prioridade },
				Cell:          func(c model.Chamado) string { return labelOf(model.Prioridades, c.Prioridade) },
				Sortable:      true,
				FilterOptions: filterOptions(model.Prioridades),
			},
			{
				Header: "Categoria", Key: "categoria",
				Value:         func(c model.Chamado) any { return c.Categoria },
				Cell:          func(c model.Chamado) string { return labelOf(model.CategoriasChamado, c.Categoria) },
				Searchable:    true,
				FilterOptions: filterOptions(model.CategoriasChamado),
			},
			{Header: "Local", Key: "local", Value: func(c model.Chamado) any { return c.Local }, Searchable: true},
			{
				Header: "Criado em", Key: "createdAt",
				Value:    func(c model.Chamado) any { return c.CreatedAt },
				Cell:     func(c model.Chamado) string { return DateTime(c.CreatedAt) },
				Sortable: true,
			},
		},
		EmptyMessage:         "Nenhum chamado encontrado",
		SearchPlaceholder:    "Buscar chamados...",
		InitialSortColumn:    "createdAt",
		InitialSortDirection: table.Desc,
	}
}

// Gastos lists expenses by date, newest first.
func Gastos() *table.Table[model.Gasto] {
	return &table.Table[model.Gasto]{
		KeyExtractor: func(g model.Gasto) string { return g.ID },
		Columns: []table.Column[model.Gasto]{
			{Header: "Descrição", Key: "descricao", Value: func(g model.Gasto) any { return g.Descricao }, Sortable: true, Searchable: true},
			{
				Header: "Categoria", Key: "categoria",
				Value:         func(g model.Gasto) any { return g.Categoria },
				Cell:          func(g model.Gasto) string { return labelOf(model.CategoriasGasto, g.Categoria) },
				Sortable:      true,
				Searchable:    true,
				FilterOptions: filterOptions(model.CategoriasGasto),
			},
			{
				Header: "Tipo", Key: "tipo",
				Value:         func(g model.Gasto) any { return g.Tipo },
				Cell:          func(g model.Gasto) string { return labelOf(model.TiposGasto, g.Tipo) },
				FilterOptions: filterOptions(model.TiposGasto),
			},
			{
				Header: "Valor", Key: "valor",
				Value:    func(g model.Gasto) any { return g.Valor },
				Cell:     func(g model.Gasto) string { return Money(g.Valor) },
				Sortable: true,
			},
			{
				Header: "Data", Key: "data",
				Value:    func(g model.Gasto) any { return g.Data },
				Cell:     func(g model.Gasto) string { return Date(g.Data) },
				Sortable: true,
			},
		},
		EmptyMessage:         "Nenhum gasto encontrado",
		SearchPlaceholder:    "Buscar gastos...",
		InitialSortColumn:    "data",
		InitialSortDirection: table.Desc,
	}
}

var statusMorador = []model.Option{{Value: "ativo", Label: "Ativo"}, {Value: "inativo", Label: "Inativo"}}

func moradorStatus(m model.Morador) string {
	if m.Active() {
		return "ativo"
	}
	return "inativo"
}

// Moradores lists residents by apartment.
func Moradores() *table.Table[model.Morador] {
	return &table.Table[model.Morador]{
		KeyExtractor: func(m model.Morador) string { return m.ID },
		Columns: []table.Column[model.Morador]{
			{Header: "Nome", Key: "nome", Value: func(m model.Morador) any { return m.Nome }, Sortable: true, Searchable: true},
			{Header: "E-mail", Key: "email", Value: func(m model.Morador) any { return m.Email }, Searchable: true},
			{Header: "Apartamento", Key: "apartamento", Value: func(m model.Morador) any { return m.Apartamento }, Sortable: true, Searchable: true},
			{Header: "Telefone", Key: "telefone", Value: func(m model.Morador) any { return m.Telefone }},
			{
				Header: "Situação", Key: "situacao",
				Value:         func(m model.Morador) any { return moradorStatus(m) },
				Cell:          func(m model.Morador) string { return labelOf(statusMorador, moradorStatus(m)) },
				FilterOptions: filterOptions(statusMorador),
			},
		},
		EmptyMessage:      "Nenhum morador encontrado",
		SearchPlaceholder: "Buscar moradores...",
		InitialSortColumn: "apartamento",
	}
}

// Usuarios lists accounts.
func Usuarios() *table.Table[model.Usuario] {
	return &table.Table[model.Usuario]{
		KeyExtractor: func(u model.Usuario) string { return u.ID },
		Columns: []table.Column[model.Usuario]{
			{Header: "Nome", Key: "nome", Value: func(u model.Usuario) any { return u.Nome }, Sortable: true, Searchable: true},
			{Header: "E-mail", Key: "email", Value: func(u model.Usuario) any { return u.Email }, Sortable: true, Searchable: true},
			{
				Header: "Perfil", Key: "perfil",
				Value:         func(u model.Usuario) any { return u.Perfil },
				Cell:          func(u model.Usuario) string { return labelOf(model.Perfis, u.Perfil) },
				Sortable:      true,
				FilterOptions: filterOptions(model.Perfis),
			},
			// A nil apartment stays nil so it sorts and filters as null.
			{Header: "Apartamento", Key: "apartamento", Value: func(u model.Usuario) any {
				if u.Apartamento == nil {
					return nil
				}
				return *u.Apartamento
			}, Sortable: true, Searchable: true},
			{Header: "Telefone", Key: "telefone", Value: func(u model.Usuario) any { return u.Telefone }},
		},
		EmptyMessage:      "Nenhum usuário encontrado",
		SearchPlaceholder: "Buscar usuários...",
	}
}

// Reservas lists bookings by start time.
func Reservas() *table.Table[model.Reserva] {
	return &table.Table[model.Reserva]{
		KeyExtractor: func(r model.Reserva) string { return r.ID },
		Columns: []table.Column[model.Reserva]{
			{Header: "Área", Key: "area", Value: func(r model.Reserva) any { return r.Area }, Sortable: true, Searchable: true},
			{Header: "Morador", Key: "morador", Value: func(r model.Reserva) any { return r.Morador }, Sortable: true, Searchable: true},
			{
				Header: "Início", Key: "inicio",
				Value:    func(r model.Reserva) any { return r.Inicio },
				Cell:     func(r model.Reserva) string { return DateTime(r.Inicio) },
				Sortable: true,
			},
			{
				Header: "Fim", Key: "fim",
				Value: func(r model.Reserva) any { return r.Fim },
				Cell:  func(r model.Reserva) string { return DateTime(r.Fim) },
			},
			{
				Header: "Status", Key: "status",
				Value:         func(r model.Reserva) any { return r.Status },
				Cell:          func(r model.Reserva) string { return labelOf(model.StatusReserva, r.Status) },
				Sortable:      true,
				FilterOptions: filterOptions(model.StatusReserva),
			},
		},
		EmptyMessage:      "Nenhuma reserva encontrada",
		SearchPlaceholder: "Buscar reservas...",
		InitialSortColumn: "inicio",
	}
}

// Avisos lists announcements, newest first.
func Avisos() *table.Table[model.Aviso] {
	return &table.Table[model.Aviso]{
		KeyExtractor: func(a model.Aviso) string { return a.ID },
		Columns: []table.Column[model.Aviso]{
			{Header: "Título", Key: "titulo", Value: func(a model.Aviso) any { return a.Titulo }, Sortable: true, Searchable: true},
			{
				Header: "Prioridade", Key: "prioridade",
				Value:         func(a model.Aviso) any { return a.Prioridade },
				Cell:          func(a model.Aviso) string { return labelOf(model.Prioridades, a.Prioridade) },
				Sortable:      true,
				FilterOptions: filterOptions(model.Prioridades),
			},
			{Header: "Autor", Key: "autor", Value: func(a model.Aviso) any { return a.Autor }, Searchable: true},
			{
				Header: "Publicado em", Key: "publicadoEm",
				Value:    func(a model.Aviso) any { return a.PublicadoEm },
				Cell:     func(a model.Aviso) string { return DateTime(a.PublicadoEm) },
				Sortable: true,
			},
		},
		EmptyMessage:         "Nenhum aviso publicado",
		SearchPlaceholder:    "Buscar avisos...",
		InitialSortColumn:    "publicadoEm",
		InitialSortDirection: table.Desc,
	}
}

// Overdue reports whether a ticket is still open past its deadline.
func Overdue(c model.Chamado, now time.Time) bool {
	return c.DataLimite != nil && c.Status != model.StatusFechado && now.After(*c.DataLimite)
}
