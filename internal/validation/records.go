package validation

import (
	"time"

	"condo/internal/model"
)

// Chamado validates a ticket. now bounds the optional deadline.
func Chamado(c model.Chamado, now time.Time) error {
	v := NewValidator()
	v.MinLength(c.Titulo, 5, "titulo", "O título deve ter pelo menos 5 caracteres")
	v.MaxLength(c.Titulo, 100, "titulo", "O título deve ter no máximo 100 caracteres")
	v.MinLength(c.Descricao, 10, "descricao", "A descrição deve ter pelo menos 10 caracteres")
	v.MaxLength(c.Descricao, 1000, "descricao", "A descrição deve ter no máximo 1000 caracteres")
	v.OneOf(c.Prioridade, model.Values(model.Prioridades), "prioridade", "Selecione a prioridade do chamado")
	v.OneOf(c.Categoria, model.Values(model.CategoriasChamado), "categoria", "Selecione a categoria do chamado")
	v.OneOf(c.Status, model.Values(model.StatusChamado), "status", "Selecione um status válido")
	if c.Local != "" {
		v.MinLength(c.Local, 3, "local", "O local deve ter pelo menos 3 caracteres")
		v.MaxLength(c.Local, 100, "local", "O local deve ter no máximo 100 caracteres")
	}
	if c.DataLimite != nil {
		v.Check(c.DataLimite.After(now), "dataLimite", "A data limite deve ser no futuro")
	}
	return v.Err()
}

// Comentario validates the text of a ticket comment.
func Comentario(texto string) error {
	v := NewValidator()
	v.MinLength(texto, 1, "texto", "O comentário não pode estar vazio")
	v.MaxLength(texto, 500, "texto", "O comentário deve ter no máximo 500 caracteres")
	return v.Err()
}

// Gasto validates an expense.
func Gasto(g model.Gasto) error {
	v := NewValidator()
	v.MinLength(g.Descricao, 5, "descricao", "A descrição deve ter pelo menos 5 caracteres")
	v.MaxLength(g.Descricao, 200, "descricao", "A descrição deve ter no máximo 200 caracteres")
	v.Check(g.Valor > 0, "valor", "O valor deve ser maior que zero")
	v.OneOf(g.Categoria, model.Values(model.CategoriasGasto), "categoria", "Selecione a categoria do gasto")
	v.Check(!g.Data.IsZero(), "data", "Selecione a data de pagamento")
	if g.Tipo != "" {
		v.OneOf(g.Tipo, model.Values(model.TiposGasto), "tipo", "Selecione o tipo de gasto")
	}
	v.MaxLength(g.Observacao, 500, "observacao", "A observação deve ter no máximo 500 caracteres")
	return v.Err()
}

// Usuario validates an account. Senha is checked when requirePassword is set
// or a new password was supplied.
func Usuario(u model.Usuario, requirePassword bool) error {
	v := NewValidator()
	nome(v, u.Nome)
	email(v, u.Email)
	v.OneOf(u.Perfil, model.Values(model.Perfis), "perfil", "Selecione um perfil válido")
	if u.Telefone != "" {
		telefone(v, u.Telefone)
	}
	if requirePassword || u.Senha != "" {
		senha(v, u.Senha)
	}
	return v.Err()
}

// Senha validates a new password on its own.
func Senha(s string) error {
	v := NewValidator()
	senha(v, s)
	return v.Err()
}

// Morador validates a resident.
func Morador(m model.Morador) error {
	v := NewValidator()
	nome(v, m.Nome)
	email(v, m.Email)
	v.Required(m.Apartamento, "apartamento", "O apartamento é obrigatório")
	if m.Telefone != "" {
		telefone(v, m.Telefone)
	}
	return v.Err()
}

// Reserva validates a booking of a common area.
func Reserva(r model.Reserva) error {
	v := NewValidator()
	v.Required(r.Area, "area", "Selecione a área")
	v.Check(!r.Inicio.IsZero(), "inicio", "Data inválida")
	v.Check(!r.Fim.IsZero(), "fim", "Data inválida")
	if !r.Inicio.IsZero() && !r.Fim.IsZero() {
		v.Check(r.Fim.After(r.Inicio), "fim", "O término deve ser depois do início")
	}
	v.OneOf(r.Status, model.Values(model.StatusReserva), "status", "Selecione um status válido")
	return v.Err()
}

// Aviso validates an announcement.
func Aviso(a model.Aviso) error {
	v := NewValidator()
	v.MinLength(a.Titulo, 5, "titulo", "O título deve ter pelo menos 5 caracteres")
	v.MaxLength(a.Titulo, 100, "titulo", "O título deve ter no máximo 100 caracteres")
	v.Required(a.Conteudo, "conteudo", "O conteúdo é obrigatório")
	v.OneOf(a.Prioridade, model.Values(model.Prioridades), "prioridade", "Selecione a prioridade do aviso")
	return v.Err()
}

// Login validates sign-in form input.
func Login(emailAddr, password string) error {
	v := NewValidator()
	v.Required(emailAddr, "email", "O e-mail é obrigatório")
	v.Email(emailAddr, "email", "Formato de e-mail inválido")
	v.Required(password, "senha", "A senha é obrigatória")
	return v.Err()
}

func nome(v *Validator, s string) {
	v.MinLength(s, 3, "nome", "O nome deve ter pelo menos 3 caracteres")
	v.MaxLength(s, 100, "nome", "O nome deve ter no máximo 100 caracteres")
	v.Regex(s, nameRegex, "nome", "O nome deve conter apenas letras e espaços")
}

func email(v *Validator, s string) {
	v.Required(s, "email", "O e-mail é obrigatório")
	v.Email(s, "email", "Formato de e-mail inválido")
}

func telefone(v *Validator, s string) {
	v.MinLength(s, 10, "telefone", "O telefone deve ter pelo menos 10 dígitos")
	v.MaxLength(s, 15, "telefone", "O telefone deve ter no máximo 15 dígitos")
	v.Regex(s, phoneRegex, "telefone", "Formato de telefone inválido")
}

func senha(v *Validator, s string) {
	v.MinLength(s, 6, "senha", "A senha deve ter pelo menos 6 caracteres")
	v.MaxLength(s, 100, "senha", "A senha deve ter no máximo 100 caracteres")
	v.Regex(s, upperRegex, "senha", "A senha deve conter pelo menos uma letra maiúscula")
	v.Regex(s, digitRegex, "senha", "A senha deve conter pelo menos um número")
}
