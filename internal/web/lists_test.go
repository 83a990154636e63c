package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condo/internal/auth"
	"condo/internal/listing"
	"condo/internal/model"
	"condo/internal/table"
)

func chamadosList() *resourceList[model.Chamado] {
	return &resourceList[model.Chamado]{
		resource: model.Chamados, title: "Chamados", path: "/chamados",
		table: listing.Chamados, detail: true, actions: chamadoActions,
	}
}

func order(t *testing.T, body string, needles ...string) {
	t.Helper()
	last := -1
	for _, n := range needles {
		i := strings.Index(body, n)
		require.NotEqual(t, -1, i, "missing %q", n)
		assert.Greater(t, i, last, "%q out of order", n)
		last = i
	}
}

func TestListPage_DesktopTable(t *testing.T) {
	e := newTestEnv(t)
	rr := e.get("/chamados?vw=1280", e.morador(t))
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	assert.Contains(t, body, `<table class="data">`)
	assert.Contains(t, body, `data-layout="desktop"`)
	assert.Contains(t, rr.Header().Get("Accept-CH"), "Sec-CH-Viewport-Width")
	// newest first
	order(t, body, "Lâmpada queimada no corredor", "Vazamento no banheiro", "Barulho excessivo")
	assert.Contains(t, body, `href="/chamados/2"`)
	assert.Contains(t, body, "3 de 3")
}

func TestListPage_MobileCards(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/chamados", nil)
	req.AddCookie(&http.Cookie{Name: ViewportCookie, Value: "375"})
	rr := e.do(req, e.morador(t))
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	assert.Contains(t, body, `class="row-card"`)
	assert.NotContains(t, body, `<table class="data">`)
	assert.Contains(t, body, `data-layout="mobile"`)
	assert.NotContains(t, body, `data-pinned`)
}

func TestListPage_ForcedWidthIsPinned(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/chamados?vw=500", nil)
	req.AddCookie(&http.Cookie{Name: ViewportCookie, Value: "1280"})
	rr := e.do(req, e.morador(t))
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	// the viewport script must not reload a window wider than the forced width
	assert.Contains(t, body, `data-layout="mobile" data-pinned="true"`)

	js := e.get("/static/viewport.js").Body.String()
	assert.Contains(t, js, `body.dataset.pinned === "true"`)
	assert.Contains(t, js, "!pinned && body.dataset.layout")
}

func TestListPage_SearchFiltersAndEmptyState(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.morador(t)

	rr := e.get("/chamados?f.status=aberto", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Vazamento no banheiro")
	assert.NotContains(t, body, "Lâmpada queimada")
	assert.Contains(t, body, `class="chip"`)
	assert.Contains(t, body, "Limpar filtros")

	rr = e.get("/chamados?q=inexistente", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	body = rr.Body.String()
	assert.Contains(t, body, "Nenhum chamado encontrado")
	assert.Contains(t, body, `value="inexistente"`)
	assert.Contains(t, body, `href="/chamados"`)
}

func TestListPage_RoleGuard(t *testing.T) {
	e := newTestEnv(t)

	rr := e.get("/usuarios", e.morador(t))
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/acesso-negado", rr.Header().Get("Location"))

	rr = e.get("/usuarios", e.sindico(t))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Maria Souza")
}

func TestListPage_NewButtonFollowsRoles(t *testing.T) {
	e := newTestEnv(t)

	rr := e.get("/gastos", e.morador(t))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), `href="/gastos/novo"`)

	rr = e.get("/gastos", e.sindico(t))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `href="/gastos/novo"`)

	rr = e.get("/chamados", e.morador(t))
	assert.Contains(t, rr.Body.String(), `href="/chamados/novo"`)
}

func TestListPage_AllResourcesRender(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.admin(t)
	for _, r := range model.Resources {
		t.Run(r.String(), func(t *testing.T) {
			rr := e.get("/"+r.String(), cookie)
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	}
}

func TestBuildListPage_Links(t *testing.T) {
	l := chamadosList()
	tbl := l.table()
	st := stateFromQuery(tbl, "f.status=aberto&f.prioridade=alta&fo=status,prioridade")
	staff := auth.User{ID: "1", Perfil: model.PerfilSindico}

	p := l.buildListPage(model.Seed().Chamados, st, table.Desktop, false, staff, 768)

	require.Len(t, p.Chips, 2)
	assert.Equal(t, "/chamados?f.prioridade=alta", p.Chips[0].RemoveHref)
	assert.Equal(t, "/chamados?f.status=aberto", p.Chips[1].RemoveHref)
	assert.Equal(t, "/chamados", p.ClearHref)
	assert.True(t, p.ShowClear)

	var titulo headerLink
	for _, h := range p.Headers {
		if h.Label == "Título" {
			titulo = h
		}
	}
	assert.Equal(t, "/chamados?sort=titulo&dir=asc&f.status=aberto&f.prioridade=alta&fo=status%2Cprioridade", titulo.Href)

	require.Len(t, p.Rows, 1)
	assert.Equal(t, "/chamados/1", p.Rows[0].Href)
	// staff may close an open ticket from the list
	require.Len(t, p.Rows[0].Actions, 2)
	assert.Equal(t, "Fechar", p.Rows[0].Actions[1].Label)

	assert.Equal(t, []hiddenField{{paramOrder, "status,prioridade"}}, p.Hidden)
	assert.Equal(t, []hiddenField{{"f.status", "aberto"}, {"f.prioridade", "alta"}}, p.FilterFields)
}

func TestBuildListPage_SortIndicatorAndFilterPanel(t *testing.T) {
	l := chamadosList()
	tbl := l.table()
	st := stateFromQuery(tbl, "filters=1")

	p := l.buildListPage(model.Seed().Chamados, st, table.Desktop, false, auth.User{}, 768)

	for _, h := range p.Headers {
		if h.Sorted {
			assert.Equal(t, "▼", h.Indicator)
		}
	}
	require.NotEmpty(t, p.Filters)
	assert.True(t, p.ShowFilters)
	assert.True(t, p.HasFilterOptions)
	assert.Equal(t, "Todos", p.Filters[0].Options[0].Label)
	assert.True(t, p.Filters[0].Options[0].Selected)
	assert.Equal(t, "/chamados", p.ToggleFiltersHref)
}

func TestBuildListPage_Loading(t *testing.T) {
	l := chamadosList()
	p := l.buildListPage(nil, l.table().NewState(), table.Mobile, true, auth.User{}, 768)
	assert.Equal(t, "loading", p.Status)
	assert.NotEmpty(t, p.Skeletons)
	assert.Empty(t, p.Rows)
}
