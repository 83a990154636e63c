package mockapi

import (
	"context"
	"math"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"condo/internal/db"
	"condo/internal/model"
)

const recentLimit = 5

// TicketSummary is a ticket line in the dashboard.
type TicketSummary struct {
	ID        string    `json:"id"`
	Titulo    string    `json:"titulo"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExpenseSummary is an expense line in the dashboard.
type ExpenseSummary struct {
	ID        string    `json:"id"`
	Descricao string    `json:"descricao"`
	Valor     float64   `json:"valor"`
	Data      time.Time `json:"data"`
}

// Dashboard aggregates the home page numbers.
type Dashboard struct {
	Chamados struct {
		Total        int             `json:"total"`
		Abertos      int             `json:"abertos"`
		EmAndamento  int             `json:"emAndamento"`
		Fechados     int             `json:"fechados"`
		PorCategoria map[string]int  `json:"porCategoria"`
		Recentes     []TicketSummary `json:"recentes"`
	} `json:"chamados"`
	Gastos struct {
		Total        float64            `json:"total"`
		PorCategoria map[string]float64 `json:"porCategoria"`
		Recentes     []ExpenseSummary   `json:"recentes"`
	} `json:"gastos"`
	Moradores struct {
		Total  int `json:"total"`
		Ativos int `json:"ativos"`
	} `json:"moradores"`
	Avisos []model.Aviso `json:"avisos"`
}

// MonthTotal is the expense total of one month ("2006-01").
type MonthTotal struct {
	Mes   string  `json:"mes"`
	Total float64 `json:"total"`
}

// CategoryShare is an expense category with its share of the total.
type CategoryShare struct {
	Categoria  string  `json:"categoria"`
	Valor      float64 `json:"valor"`
	Percentual float64 `json:"percentual"`
}

// StatusShare is a ticket status with its share of all tickets.
type StatusShare struct {
	Status     string  `json:"status"`
	Quantidade int     `json:"quantidade"`
	Percentual float64 `json:"percentual"`
}

// Report is the reports page content.
type Report struct {
	GastosPorMes       []MonthTotal    `json:"gastosPorMes"`
	GastosPorCategoria []CategoryShare `json:"gastosPorCategoria"`
	ChamadosPorStatus  []StatusShare   `json:"chamadosPorStatus"`
	TotalGastos        float64         `json:"totalGastos"`
	TotalChamados      int             `json:"totalChamados"`
	TotalMoradores     int             `json:"totalMoradores"`
}

type snapshot struct {
	chamados  []model.Chamado
	gastos    []model.Gasto
	moradores []model.Morador
	avisos    []model.Aviso
}

// load reads the collections the aggregates need in parallel.
func (s *Service) load(ctx context.Context) (snapshot, error) {
	var snap snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.chamados, err = db.ListAs[model.Chamado](ctx, s.store, model.Chamados.String())
		return err
	})
	g.Go(func() (err error) {
		snap.gastos, err = db.ListAs[model.Gasto](ctx, s.store, model.Gastos.String())
		return err
	})
	g.Go(func() (err error) {
		snap.moradores, err = db.ListAs[model.Morador](ctx, s.store, model.Moradores.String())
		return err
	})
	g.Go(func() (err error) {
		snap.avisos, err = db.ListAs[model.Aviso](ctx, s.store, model.Avisos.String())
		return err
	})
	if err := g.Wait(); err != nil {
		return snapshot{}, storeError("", "", err)
	}
	return snap, nil
}

// NormalizeStatus folds "Em Andamento" and "em andamento" into "em_andamento".
func NormalizeStatus(status string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(status)), " ", "_")
}

// Dashboard computes the home page aggregates.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	if err := s.simulate(ctx, "dashboard", ""); err != nil {
		return d, err
	}
	snap, err := s.load(ctx)
	if err != nil {
		return d, err
	}

	d.Chamados.Total = len(snap.chamados)
	d.Chamados.PorCategoria = map[string]int{}
	for _, c := range snap.chamados {
		switch NormalizeStatus(c.Status) {
		case model.StatusAberto:
			d.Chamados.Abertos++
		case model.StatusEmAndamento:
			d.Chamados.EmAndamento++
		case model.StatusFechado:
			d.Chamados.Fechados++
		}
		d.Chamados.PorCategoria[c.Categoria]++
	}
	tickets := slices.Clone(snap.chamados)
	slices.SortStableFunc(tickets, func(a, b model.Chamado) int { return b.CreatedAt.Compare(a.CreatedAt) })
	d.Chamados.Recentes = []TicketSummary{}
	for _, c := range tickets[:min(recentLimit, len(tickets))] {
		d.Chamados.Recentes = append(d.Chamados.Recentes, TicketSummary{ID: c.ID, Titulo: c.Titulo, Status: c.Status, CreatedAt: c.CreatedAt})
	}

	d.Gastos.PorCategoria = map[string]float64{}
	for _, g := range snap.gastos {
		d.Gastos.Total += g.Valor
		d.Gastos.PorCategoria[g.Categoria] += g.Valor
	}
	d.Gastos.Total = round2(d.Gastos.Total)
	for k, v := range d.Gastos.PorCategoria {
		d.Gastos.PorCategoria[k] = round2(v)
	}
	expenses := slices.Clone(snap.gastos)
	slices.SortStableFunc(expenses, func(a, b model.Gasto) int { return b.Data.Compare(a.Data) })
	d.Gastos.Recentes = []ExpenseSummary{}
	for _, g := range expenses[:min(recentLimit, len(expenses))] {
		d.Gastos.Recentes = append(d.Gastos.Recentes, ExpenseSummary{ID: g.ID, Descricao: g.Descricao, Valor: g.Valor, Data: g.Data})
	}

	d.Moradores.Total = len(snap.moradores)
	for _, m := range snap.moradores {
		if m.Active() {
			d.Moradores.Ativos++
		}
	}

	avisos := slices.Clone(snap.avisos)
	slices.SortStableFunc(avisos, func(a, b model.Aviso) int { return b.PublicadoEm.Compare(a.PublicadoEm) })
	d.Avisos = append([]model.Aviso{}, avisos[:min(3, len(avisos))]...)
	return d, nil
}

// Report computes expense totals per month and category and ticket counts
// per status.
func (s *Service) Report(ctx context.Context) (Report, error) {
	var r Report
	if err := s.simulate(ctx, "report", ""); err != nil {
		return r, err
	}
	snap, err := s.load(ctx)
	if err != nil {
		return r, err
	}

	months := map[string]float64{}
	categories := map[string]float64{}
	for _, g := range snap.gastos {
		months[g.Data.Format("2006-01")] += g.Valor
		categories[g.Categoria] += g.Valor
		r.TotalGastos += g.Valor
	}
	r.TotalGastos = round2(r.TotalGastos)

	r.GastosPorMes = []MonthTotal{}
	for _, mes := range sortedKeys(months) {
		r.GastosPorMes = append(r.GastosPorMes, MonthTotal{Mes: mes, Total: round2(months[mes])})
	}

	r.GastosPorCategoria = []CategoryShare{}
	for _, cat := range sortedKeys(categories) {
		r.GastosPorCategoria = append(r.GastosPorCategoria, CategoryShare{
			Categoria:  cat,
			Valor:      round2(categories[cat]),
			Percentual: percent(categories[cat], r.TotalGastos),
		})
	}
	slices.SortStableFunc(r.GastosPorCategoria, func(a, b CategoryShare) int {
		switch {
		case a.Valor > b.Valor:
			return -1
		case a.Valor < b.Valor:
			return 1
		}
		return 0
	})

	counts := map[string]int{}
	for _, c := range snap.chamados {
		counts[NormalizeStatus(c.Status)]++
	}
	r.TotalChamados = len(snap.chamados)
	r.ChamadosPorStatus = []StatusShare{}
	for _, opt := range model.StatusChamado {
		r.ChamadosPorStatus = append(r.ChamadosPorStatus, StatusShare{
			Status:     opt.Value,
			Quantidade: counts[opt.Value],
			Percentual: percent(float64(counts[opt.Value]), float64(r.TotalChamados)),
		})
	}
	r.TotalMoradores = len(snap.moradores)
	return r, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func percent(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(part/total*1000) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
