package web

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"condo/internal/listing"
	"condo/internal/table"
)

func TestStateFromQuery_Defaults(t *testing.T) {
	tbl := listing.Chamados()
	st := stateFromQuery(tbl, "")
	assert.Equal(t, tbl.NewState(), st)
}

func TestStateFromQuery_ParsesEverything(t *testing.T) {
	tbl := listing.Chamados()
	st := stateFromQuery(tbl, "q=+vazamento+&sort=titulo&dir=asc&f.status=aberto&f.prioridade=alta&filters=1")

	// the term is matched as typed, surrounding spaces included
	assert.Equal(t, " vazamento ", st.SearchTerm)
	assert.Equal(t, "titulo", st.SortColumn)
	assert.Equal(t, table.Asc, st.SortDirection)
	assert.True(t, st.ShowFilters)
	assert.Equal(t, []table.Filter{{Key: "status", Value: "aberto"}, {Key: "prioridade", Value: "alta"}}, st.ActiveFilters)
}

func TestStateFromQuery_FilterOrderParam(t *testing.T) {
	tbl := listing.Chamados()
	// the filter form submits selects in column order; fo restores the order
	// the chips were added in
	st := stateFromQuery(tbl, "f.status=aberto&f.prioridade=alta&f.categoria=eletrica&fo=prioridade,status")

	keys := make([]string, 0, len(st.ActiveFilters))
	for _, f := range st.ActiveFilters {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"prioridade", "status", "categoria"}, keys)
}

func TestStateFromQuery_IgnoresUnknownKeys(t *testing.T) {
	tbl := listing.Chamados()
	initial := tbl.NewState()

	st := stateFromQuery(tbl, "sort=naoexiste&dir=sideways&f.naoexiste=1")
	assert.Equal(t, initial.SortColumn, st.SortColumn)
	assert.Equal(t, initial.SortDirection, st.SortDirection)
	assert.Empty(t, st.ActiveFilters)
}

func TestStateFromQuery_EmptySortClearsOrdering(t *testing.T) {
	st := stateFromQuery(listing.Chamados(), "sort=")
	assert.Empty(t, st.SortColumn)
	assert.Equal(t, table.Asc, st.SortDirection)
}

func TestStateFromQuery_EmptyFilterValueIsDropped(t *testing.T) {
	st := stateFromQuery(listing.Chamados(), "f.status=&f.prioridade=alta")
	assert.Equal(t, []table.Filter{{Key: "prioridade", Value: "alta"}}, st.ActiveFilters)
}

func TestEncodeState_RoundTrip(t *testing.T) {
	tbl := listing.Chamados()
	initial := tbl.NewState()

	tests := []struct {
		name  string
		query string
	}{
		{"defaults", ""},
		{"search", "q=l%C3%A2mpada"},
		{"sort", "sort=titulo&dir=asc"},
		{"no sort", "sort="},
		{"filters in order", "f.prioridade=alta&f.status=aberto&fo=prioridade%2Cstatus"},
		{"panel open", "filters=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := stateFromQuery(tbl, tt.query)
			assert.Equal(t, tt.query, encodeState(st, initial))
			assert.Equal(t, st, stateFromQuery(tbl, encodeState(st, initial)))
		})
	}
}

func TestWithQuery(t *testing.T) {
	assert.Equal(t, "/chamados", withQuery("/chamados", ""))
	assert.Equal(t, "/chamados?q=x", withQuery("/chamados", "q=x"))
}
