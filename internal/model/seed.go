package model

import "time"

// Dataset is a full set of records, one slice per collection.
type Dataset struct {
	Usuarios  []Usuario
	Chamados  []Chamado
	Gastos    []Gasto
	Moradores []Morador
	Reservas  []Reserva
	Avisos    []Aviso
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func strp(s string) *string { return &s }

// Seed returns the bundled sample data. Passwords are plain text here and
// are hashed when the dataset is loaded into a store.
func Seed() Dataset {
	return Dataset{
		Usuarios: []Usuario{
			{ID: "1", Nome: "João Silva", Email: "sindico@exemplo.com", Senha: "123456", Perfil: PerfilSindico, Telefone: "(11) 98765-4321", CreatedAt: ts("2023-01-01T00:00:00Z")},
			{ID: "2", Nome: "Maria Souza", Email: "maria@exemplo.com", Senha: "123456", Perfil: PerfilMorador, Apartamento: strp("101"), Telefone: "(11) 91234-5678", CreatedAt: ts("2023-01-02T00:00:00Z")},
			{ID: "3", Nome: "Pedro Santos", Email: "pedro@exemplo.com", Senha: "123456", Perfil: PerfilMorador, Apartamento: strp("102"), Telefone: "(11) 92345-6789", CreatedAt: ts("2023-01-03T00:00:00Z")},
		},
		Chamados: []Chamado{
			{
				ID: "1", Titulo: "Vazamento no banheiro",
				Descricao: "Há um vazamento no banheiro do apartamento 101 que está afetando o apartamento de baixo.",
				Status:    StatusAberto, Prioridade: "alta", Categoria: "hidraulica", Local: "Apartamento 101",
				Solicitante: "2", Responsavel: "1",
				CreatedAt: ts("2023-05-10T14:30:00Z"), UpdatedAt: ts("2023-05-10T14:30:00Z"),
				Comentarios: []Comentario{
					{ID: "1", ChamadoID: "1", UsuarioID: "1", Texto: "Vou verificar o problema hoje à tarde.", CreatedAt: ts("2023-05-10T15:00:00Z")},
					{ID: "2", ChamadoID: "1", UsuarioID: "2", Texto: "Obrigado pela atenção.", CreatedAt: ts("2023-05-10T15:05:00Z")},
				},
			},
			{
				ID: "2", Titulo: "Lâmpada queimada no corredor",
				Descricao: "A lâmpada do corredor do 10º andar está queimada.",
				Status:    StatusEmAndamento, Prioridade: "media", Categoria: "eletrica", Local: "Corredor 10º andar",
				Solicitante: "3", Responsavel: "1",
				CreatedAt: ts("2023-05-11T09:15:00Z"), UpdatedAt: ts("2023-05-11T10:30:00Z"),
				Comentarios: []Comentario{
					{ID: "3", ChamadoID: "2", UsuarioID: "1", Texto: "Já solicitei a compra de novas lâmpadas.", CreatedAt: ts("2023-05-11T10:30:00Z")},
				},
			},
			{
				ID: "3", Titulo: "Barulho excessivo no apartamento 103",
				Descricao: "O morador do apartamento 103 está fazendo muito barulho após as 22h.",
				Status:    StatusFechado, Prioridade: "baixa", Categoria: "convivencia", Local: "Apartamento 103",
				Solicitante: "2", Responsavel: "1",
				CreatedAt: ts("2023-05-05T23:10:00Z"), UpdatedAt: ts("2023-05-07T14:20:00Z"),
				Comentarios: []Comentario{
					{ID: "4", ChamadoID: "3", UsuarioID: "1", Texto: "Conversei com o morador e ele se comprometeu a reduzir o barulho.", CreatedAt: ts("2023-05-06T10:00:00Z")},
					{ID: "5", ChamadoID: "3", UsuarioID: "2", Texto: "O problema foi resolvido. Obrigado!", CreatedAt: ts("2023-05-07T14:20:00Z")},
				},
			},
		},
		Gastos: []Gasto{
			{ID: "1", Descricao: "Manutenção do elevador", Valor: 1500.0, Data: ts("2023-04-15T00:00:00Z"), Categoria: "manutencao", Tipo: "variavel", Comprovante: "/placeholder-pcrgg.png", Responsavel: "1", CreatedAt: ts("2023-04-15T14:30:00Z"), UpdatedAt: ts("2023-04-15T14:30:00Z")},
			{ID: "2", Descricao: "Conta de água - Abril/2023", Valor: 2300.5, Data: ts("2023-04-20T00:00:00Z"), Categoria: "contas", Tipo: "fixo", Comprovante: "/placeholder-pzonp.png", Responsavel: "1", CreatedAt: ts("2023-04-20T10:15:00Z"), UpdatedAt: ts("2023-04-20T10:15:00Z")},
			{ID: "3", Descricao: "Conta de luz - Abril/2023", Valor: 1800.75, Data: ts("2023-04-22T00:00:00Z"), Categoria: "contas", Tipo: "fixo", Comprovante: "/placeholder-4mlwd.png", Responsavel: "1", CreatedAt: ts("2023-04-22T11:30:00Z"), UpdatedAt: ts("2023-04-22T11:30:00Z")},
			{ID: "4", Descricao: "Serviço de limpeza - Abril/2023", Valor: 3500.0, Data: ts("2023-04-30T00:00:00Z"), Categoria: "servicos", Tipo: "fixo", Comprovante: "/placeholder-wznij.png", Responsavel: "1", CreatedAt: ts("2023-04-30T16:45:00Z"), UpdatedAt: ts("2023-04-30T16:45:00Z")},
		},
		Moradores: []Morador{
			{ID: "2", Nome: "Maria Souza", Email: "maria@exemplo.com", Apartamento: "101", Telefone: "(11) 91234-5678", CreatedAt: ts("2023-01-02T00:00:00Z")},
			{ID: "3", Nome: "Pedro Santos", Email: "pedro@exemplo.com", Apartamento: "102", Telefone: "(11) 92345-6789", CreatedAt: ts("2023-01-03T00:00:00Z")},
			{ID: "4", Nome: "Ana Oliveira", Email: "ana@exemplo.com", Apartamento: "103", Telefone: "(11) 93456-7890", CreatedAt: ts("2023-01-04T00:00:00Z")},
			{ID: "5", Nome: "Carlos Pereira", Email: "carlos@exemplo.com", Apartamento: "201", Telefone: "(11) 94567-8901", CreatedAt: ts("2023-01-05T00:00:00Z")},
			{ID: "6", Nome: "Fernanda Lima", Email: "fernanda@exemplo.com", Apartamento: "202", Telefone: "(11) 95678-9012", CreatedAt: ts("2023-01-06T00:00:00Z")},
		},
		Reservas: []Reserva{
			{ID: "1", Area: "Salão de Festas", MoradorID: "2", Morador: "Maria Souza", Inicio: ts("2023-05-20T18:00:00Z"), Fim: ts("2023-05-20T22:00:00Z"), Status: ReservaConfirmada, CreatedAt: ts("2023-05-01T10:00:00Z")},
			{ID: "2", Area: "Churrasqueira", MoradorID: "3", Morador: "Pedro Santos", Inicio: ts("2023-05-21T12:00:00Z"), Fim: ts("2023-05-21T17:00:00Z"), Status: ReservaPendente, CreatedAt: ts("2023-05-02T09:30:00Z")},
			{ID: "3", Area: "Quadra Poliesportiva", MoradorID: "4", Morador: "Ana Oliveira", Inicio: ts("2023-05-22T08:00:00Z"), Fim: ts("2023-05-22T10:00:00Z"), Status: ReservaCancelada, CreatedAt: ts("2023-05-03T14:00:00Z")},
		},
		Avisos: []Aviso{
			{ID: "1", Titulo: "Manutenção da caixa d'água", Conteudo: "A caixa d'água será limpa no **sábado, 27/05**, das 8h às 12h.\n\nO fornecimento de água será interrompido nesse período.", Prioridade: "alta", Autor: "João Silva", PublicadoEm: ts("2023-05-15T09:00:00Z"), CreatedAt: ts("2023-05-15T09:00:00Z")},
			{ID: "2", Titulo: "Assembleia geral ordinária", Conteudo: "Convocamos todos os condôminos para a assembleia de **10/06 às 19h** no salão de festas.\n\n- Prestação de contas\n- Eleição do conselho", Prioridade: "media", Autor: "João Silva", PublicadoEm: ts("2023-05-18T12:00:00Z"), CreatedAt: ts("2023-05-18T12:00:00Z")},
		},
	}
}
