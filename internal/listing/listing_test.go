package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condo/internal/model"
	"condo/internal/table"
)

func TestTablesAreValid(t *testing.T) {
	require.NoError(t, Chamados().Validate())
	require.NoError(t, Gastos().Validate())
	require.NoError(t, Moradores().Validate())
	require.NoError(t, Usuarios().Validate())
	require.NoError(t, Reservas().Validate())
	require.NoError(t, Avisos().Validate())
}

func TestMoney(t *testing.T) {
	tests := map[float64]string{
		0:          "R$ 0,00",
		1500:       "R$ 1.500,00",
		2300.5:     "R$ 2.300,50",
		1800.75:    "R$ 1.800,75",
		1234567.89: "R$ 1.234.567,89",
		-12.3:      "-R$ 12,30",
		999.999:    "R$ 1.000,00",
	}
	for in, want := range tests {
		assert.Equal(t, want, Money(in), "Money(%v)", in)
	}
}

func TestDatesAndPercent(t *testing.T) {
	ts := time.Date(2023, 5, 10, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "10/05/2023", Date(ts))
	assert.Equal(t, "10/05/2023 14:30", DateTime(ts))
	assert.Equal(t, "-", Date(time.Time{}))
	assert.Equal(t, "45,1%", Percent(45.1))
}

func TestChamados_DefaultOrderIsNewestFirst(t *testing.T) {
	tbl := Chamados()
	rows := tbl.Derive(model.Seed().Chamados, tbl.NewState())

	ids := make([]string, len(rows))
	for i, c := range rows {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"2", "1", "3"}, ids)
}

func TestChamados_FilterUsesStoredValueAndCellShowsLabel(t *testing.T) {
	tbl := Chamados()
	s := tbl.NewState()
	s.ApplyFilter("status", model.StatusEmAndamento)

	v := tbl.Build(model.Seed().Chamados, s, table.Desktop, false)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "2", v.Rows[0].Key)

	var status string
	for _, c := range v.Rows[0].Cells {
		if c.Key == "status" {
			status = c.Text
		}
	}
	assert.Equal(t, "Em andamento", status)
	assert.Equal(t, "Status: em_andamento", v.Chips[0].Label)
}

func TestGastos_SortByValor(t *testing.T) {
	tbl := Gastos()
	s := tbl.NewState()
	s.ToggleSort("valor")

	rows := tbl.Derive(model.Seed().Gastos, s)
	require.Len(t, rows, 4)
	assert.Equal(t, 1500.0, rows[0].Valor)
	assert.Equal(t, 3500.0, rows[3].Valor)
}

func TestUsuarios_MissingApartmentRendersPlaceholder(t *testing.T) {
	tbl := Usuarios()
	v := tbl.Build(model.Seed().Usuarios, tbl.NewState(), table.Mobile, false)
	require.NotEmpty(t, v.Rows)

	for _, c := range v.Rows[0].Cells {
		if c.Key == "apartamento" {
			assert.Equal(t, "-", c.Text)
		}
	}
}

func TestMoradores_FilterInactive(t *testing.T) {
	inactive := false
	data := []model.Morador{
		{ID: "1", Nome: "Ana", Apartamento: "101"},
		{ID: "2", Nome: "Bruno", Apartamento: "102", Ativo: &inactive},
	}
	tbl := Moradores()
	s := tbl.NewState()
	s.ApplyFilter("situacao", "inativo")

	rows := tbl.Derive(data, s)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bruno", rows[0].Nome)
}

func TestOverdue(t *testing.T) {
	now := time.Date(2023, 5, 12, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	c := model.Chamado{Status: model.StatusAberto, DataLimite: &past}
	assert.True(t, Overdue(c, now))

	c.Status = model.StatusFechado
	assert.False(t, Overdue(c, now))
	assert.False(t, Overdue(model.Chamado{Status: model.StatusAberto}, now))
}
