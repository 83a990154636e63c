// Package model holds the condominium records shared by the store, the web
// dashboard and the terminal browser.
package model

import "time"

// Perfil values.
const (
	PerfilAdmin   = "admin"
	PerfilSindico = "sindico"
	PerfilMorador = "morador"
)

// AdminEmail belongs to the built-in administrator and cannot be taken by a
// stored account.
const AdminEmail = "admin@condominio.com"

// Usuario is an account that can sign in. Senha holds a bcrypt hash once
// stored and is stripped before records leave the server.
type Usuario struct {
	ID          string    `json:"id"`
	Nome        string    `json:"nome"`
	Email       string    `json:"email"`
	Senha       string    `json:"senha,omitempty"`
	Perfil      string    `json:"perfil"`
	Apartamento *string   `json:"apartamento"`
	Telefone    string    `json:"telefone"`
	Avatar      string    `json:"avatar,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// Public returns a copy without credentials.
func (u Usuario) Public() Usuario {
	u.Senha = ""
	return u
}

// Chamado status values.
const (
	StatusAberto      = "aberto"
	StatusEmAndamento = "em_andamento"
	StatusFechado     = "fechado"
)

// Chamado is a maintenance or conduct ticket.
type Chamado struct {
	ID          string       `json:"id"`
	Titulo      string       `json:"titulo"`
	Descricao   string       `json:"descricao"`
	Status      string       `json:"status"`
	Prioridade  string       `json:"prioridade"`
	Categoria   string       `json:"categoria"`
	Local       string       `json:"local,omitempty"`
	Solicitante string       `json:"solicitante"`
	Responsavel string       `json:"responsavel"`
	DataLimite  *time.Time   `json:"dataLimite,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Comentarios []Comentario `json:"comentarios"`
}

// Comentario is a note left on a ticket.
type Comentario struct {
	ID        string    `json:"id"`
	ChamadoID string    `json:"chamadoId"`
	UsuarioID string    `json:"usuarioId"`
	Texto     string    `json:"texto"`
	CreatedAt time.Time `json:"createdAt"`
}

// Gasto is a condominium expense.
type Gasto struct {
	ID          string    `json:"id"`
	Descricao   string    `json:"descricao"`
	Valor       float64   `json:"valor"`
	Data        time.Time `json:"data"`
	Categoria   string    `json:"categoria"`
	Tipo        string    `json:"tipo,omitempty"`
	Comprovante string    `json:"comprovante,omitempty"`
	Responsavel string    `json:"responsavel"`
	Observacao  string    `json:"observacao,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Morador is a resident. A missing Ativo flag means active.
type Morador struct {
	ID          string    `json:"id"`
	Nome        string    `json:"nome"`
	Email       string    `json:"email"`
	Apartamento string    `json:"apartamento"`
	Telefone    string    `json:"telefone"`
	Ativo       *bool     `json:"ativo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Active reports whether the resident counts as active.
func (m Morador) Active() bool {
	return m.Ativo == nil || *m.Ativo
}

// Reserva status values.
const (
	ReservaPendente   = "pendente"
	ReservaConfirmada = "confirmada"
	ReservaCancelada  = "cancelada"
)

// Reserva books a common area.
type Reserva struct {
	ID        string    `json:"id"`
	Area      string    `json:"area"`
	MoradorID string    `json:"moradorId"`
	Morador   string    `json:"morador"`
	Inicio    time.Time `json:"inicio"`
	Fim       time.Time `json:"fim"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Aviso is an announcement. Conteudo is markdown.
type Aviso struct {
	ID          string    `json:"id"`
	Titulo      string    `json:"titulo"`
	Conteudo    string    `json:"conteudo"`
	Prioridade  string    `json:"prioridade"`
	Autor       string    `json:"autor"`
	PublicadoEm time.Time `json:"publicadoEm"`
	CreatedAt   time.Time `json:"createdAt"`
}
