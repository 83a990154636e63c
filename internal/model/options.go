package model

// Option is a stored value with its display label.
type Option struct {
	Value string
	Label string
}

var (
	StatusChamado = []Option{
		{StatusAberto, "Aberto"},
		{StatusEmAndamento, "Em andamento"},
		{StatusFechado, "Fechado"},
	}
	Prioridades = []Option{
		{"baixa", "Baixa"},
		{"media", "Média"},
		{"alta", "Alta"},
	}
	CategoriasChamado = []Option{
		{"manutencao", "Manutenção"},
		{"hidraulica", "Hidráulica"},
		{"eletrica", "Elétrica"},
		{"seguranca", "Segurança"},
		{"limpeza", "Limpeza"},
		{"barulho", "Barulho"},
		{"convivencia", "Convivência"},
		{"outros", "Outros"},
	}
	CategoriasGasto = []Option{
		{"manutencao", "Manutenção"},
		{"limpeza", "Limpeza"},
		{"seguranca", "Segurança"},
		{"agua", "Água"},
		{"energia", "Energia"},
		{"internet", "Internet"},
		{"contas", "Contas"},
		{"servicos", "Serviços"},
		{"outros", "Outros"},
	}
	TiposGasto = []Option{
		{"fixo", "Fixo"},
		{"variavel", "Variável"},
		{"extraordinario", "Extraordinário"},
	}
	Perfis = []Option{
		{PerfilAdmin, "Administrador"},
		{PerfilSindico, "Síndico"},
		{PerfilMorador, "Morador"},
	}
	StatusReserva = []Option{
		{ReservaPendente, "Pendente"},
		{ReservaConfirmada, "Confirmada"},
		{ReservaCancelada, "Cancelada"},
	}
)

// Values returns the stored values of opts.
func Values(opts []Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}

// Label returns the label for value, or value itself when unknown.
func Label(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
