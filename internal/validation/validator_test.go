package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "condo/internal/errors"
	"condo/internal/model"
)

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected an AppError, got %T", err)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	return appErr.Fields
}

func TestValidator(t *testing.T) {
	t.Run("first message per field wins", func(t *testing.T) {
		v := NewValidator()
		v.AddError("nome", "primeira")
		v.AddError("nome", "segunda")
		assert.Equal(t, "primeira", v.Errors()["nome"])
		assert.False(t, v.Validate())
	})

	t.Run("lengths count characters", func(t *testing.T) {
		v := NewValidator()
		v.MinLength("Água", 4, "a", "curto")
		v.MaxLength("ção", 3, "b", "longo")
		assert.True(t, v.Validate())

		v.MinLength("  ab  ", 3, "c", "curto")
		assert.Equal(t, "curto", v.Errors()["c"])
	})

	t.Run("valid returns nil error", func(t *testing.T) {
		assert.NoError(t, NewValidator().Err())
	})
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1500", 1500},
		{"2300.50", 2300.5},
		{"R$ 1.800,75", 1800.75},
		{"0,5", 0.5},
	}
	for _, tt := range tests {
		got, err := ParseNumber(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}

	_, err := ParseNumber("abc")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-04-15")
	require.NoError(t, err)
	assert.Equal(t, 15, d.Day())

	_, err = ParseDate("2023-05-20T18:00")
	assert.NoError(t, err)

	_, err = ParseDate("15/04/2023")
	assert.Error(t, err)
}

func validChamado() model.Chamado {
	return model.Chamado{
		Titulo:     "Vazamento no banheiro",
		Descricao:  "Há um vazamento no banheiro do apartamento 101.",
		Status:     model.StatusAberto,
		Prioridade: "alta",
		Categoria:  "hidraulica",
		Local:      "Apartamento 101",
	}
}

func TestChamado(t *testing.T) {
	now := time.Date(2023, 5, 10, 12, 0, 0, 0, time.UTC)
	assert.NoError(t, Chamado(validChamado(), now))

	c := validChamado()
	c.Titulo = "Luz"
	c.Descricao = "curta"
	c.Prioridade = "urgente"
	past := now.Add(-time.Hour)
	c.DataLimite = &past

	f := fields(t, Chamado(c, now))
	assert.Equal(t, "O título deve ter pelo menos 5 caracteres", f["titulo"])
	assert.Equal(t, "A descrição deve ter pelo menos 10 caracteres", f["descricao"])
	assert.Equal(t, "Selecione a prioridade do chamado", f["prioridade"])
	assert.Equal(t, "A data limite deve ser no futuro", f["dataLimite"])
	assert.NotContains(t, f, "categoria")
}

func TestComentario(t *testing.T) {
	assert.NoError(t, Comentario("Ok"))
	assert.Equal(t, "O comentário não pode estar vazio", fields(t, Comentario("   "))["texto"])
}

func TestGasto(t *testing.T) {
	g := model.Gasto{
		Descricao: "Manutenção do elevador",
		Valor:     1500,
		Data:      time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC),
		Categoria: "manutencao",
		Tipo:      "variavel",
	}
	assert.NoError(t, Gasto(g))

	g.Valor = 0
	g.Data = time.Time{}
	g.Tipo = "mensal"
	f := fields(t, Gasto(g))
	assert.Equal(t, "O valor deve ser maior que zero", f["valor"])
	assert.Equal(t, "Selecione a data de pagamento", f["data"])
	assert.Equal(t, "Selecione o tipo de gasto", f["tipo"])
}

func TestUsuario(t *testing.T) {
	u := model.Usuario{
		Nome:     "Maria Souza",
		Email:    "maria@exemplo.com",
		Perfil:   model.PerfilMorador,
		Telefone: "(11) 91234-5678",
		Senha:    "Segura1",
	}
	assert.NoError(t, Usuario(u, true))

	u.Senha = ""
	assert.NoError(t, Usuario(u, false), "password optional on update")
	assert.Contains(t, fields(t, Usuario(u, true)), "senha")

	u.Nome = "M4ria"
	u.Email = "maria@"
	u.Telefone = "abc"
	f := fields(t, Usuario(u, false))
	assert.Equal(t, "O nome deve conter apenas letras e espaços", f["nome"])
	assert.Equal(t, "Formato de e-mail inválido", f["email"])
	assert.Equal(t, "O telefone deve ter pelo menos 10 dígitos", f["telefone"])
}

func TestSenha(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ab1", "A senha deve ter pelo menos 6 caracteres"},
		{"abcdef1", "A senha deve conter pelo menos uma letra maiúscula"},
		{"Abcdefg", "A senha deve conter pelo menos um número"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, fields(t, Senha(tt.in))["senha"])
		})
	}
	assert.NoError(t, Senha("Abcdef1"))
}

func TestReserva(t *testing.T) {
	start := time.Date(2023, 5, 20, 18, 0, 0, 0, time.UTC)
	r := model.Reserva{Area: "Salão de Festas", Inicio: start, Fim: start.Add(4 * time.Hour), Status: model.ReservaPendente}
	assert.NoError(t, Reserva(r))

	r.Fim = start
	assert.Equal(t, "O término deve ser depois do início", fields(t, Reserva(r))["fim"])
}

func TestMoradorAndAviso(t *testing.T) {
	assert.NoError(t, Morador(model.Morador{Nome: "Ana Oliveira", Email: "ana@exemplo.com", Apartamento: "103"}))
	assert.Contains(t, fields(t, Morador(model.Morador{Nome: "Ana Oliveira", Email: "ana@exemplo.com"})), "apartamento")

	assert.NoError(t, Aviso(model.Aviso{Titulo: "Assembleia geral", Conteudo: "**10/06**", Prioridade: "media"}))
	assert.Contains(t, fields(t, Aviso(model.Aviso{Titulo: "Oi", Prioridade: "media"})), "titulo")
}

func TestLogin(t *testing.T) {
	assert.NoError(t, Login("admin@condominio.com", "admin"))
	f := fields(t, Login("", ""))
	assert.Equal(t, "O e-mail é obrigatório", f["email"])
	assert.Equal(t, "A senha é obrigatória", f["senha"])
}
